// Package dataset loads the named CSV datasets into core.Dataset values.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/cheri-cve/internal/core"
	"github.com/JonMunkholm/cheri-cve/internal/logging"
)

// Loader reads datasets from CSV files.
type Loader struct{}

// NewLoader returns a file-backed Loader.
func NewLoader() *Loader { return &Loader{} }

// Load reads the dataset described by info.
// Fails with core.KindDataUnavailable if the file is missing or malformed.
func (l *Loader) Load(ctx context.Context, info core.DatasetInfo) (*core.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.NewError(core.KindDataUnavailable, "load "+info.Key, err)
	}

	f, err := os.Open(info.Path)
	if err != nil {
		return nil, core.NewError(core.KindDataUnavailable, "load "+info.Key, err)
	}
	defer f.Close()

	counter := wrapForLoad(f)
	ds, err := Read(info.Key, counter)
	if err != nil {
		return nil, core.NewError(core.KindDataUnavailable, "load "+info.Key,
			fmt.Errorf("%s: %w", info.Path, err))
	}

	logging.FromContext(ctx).Debug("dataset loaded",
		"dataset", info.Key,
		"path", info.Path,
		"rows", ds.Len(),
		"columns", len(ds.Columns()),
		"bytes", counter.n,
	)
	return ds, nil
}

// ErrEmptyFile is returned for a CSV without a header row.
var ErrEmptyFile = errors.New("empty file")

// Read parses CSV text with a header row into a dataset named name.
// Rows may have fewer or more fields than the header.
func Read(name string, r io.Reader) (*core.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv header: %w", err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if isBlankRecord(rec) {
			continue
		}
		records = append(records, rec)
	}

	return core.NewDataset(name, header, records), nil
}

// isBlankRecord reports whether every field of rec is missing, the shape of
// trailing ",,,," lines in spreadsheet exports.
func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if !core.IsMissing(v) {
			return false
		}
	}
	return true
}
