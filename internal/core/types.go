package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Well-known column names in both datasets.
const (
	ColumnSymptoms = "Symptoms"
	ColumnCauses   = "Causes"

	// OutcomeCHERI is the single named outcome of the general CVE dataset.
	OutcomeCHERI = "Solved by CHERI?"
)

// GroupColumns lists the categorical grouping columns in report order.
var GroupColumns = []string{ColumnSymptoms, ColumnCauses}

// BlankLabel is the group label for rows whose grouping value is missing.
const BlankLabel = "(blank)"

// DatasetKind selects how a dataset's filtered rows are summarized.
type DatasetKind int

const (
	// KindGeneral reports the single OutcomeCHERI column when present.
	KindGeneral DatasetKind = iota
	// KindComparison reports every boolean-like column it detects.
	KindComparison
)

func (k DatasetKind) String() string {
	switch k {
	case KindGeneral:
		return "general"
	case KindComparison:
		return "comparison"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Row is one record of a Dataset. The zero Row has no columns.
type Row struct {
	index  map[string]int
	values []string
}

// Value returns the value stored under column, or "" if the column is absent.
func (r Row) Value(column string) string {
	pos, ok := r.index[column]
	if !ok {
		return ""
	}
	return r.values[pos]
}

// Dataset is an ordered, immutable set of rows with named columns.
type Dataset struct {
	name    string
	columns []string
	index   map[string]int
	records [][]string
}

// NewDataset builds a Dataset from a header and records.
//
// Blank header cells become "Unnamed: <i>" and repeated names get a ".<n>"
// suffix, skipping suffixes already taken, so every column is addressable. Records shorter than the header are
// padded with missing values; longer records are truncated.
func NewDataset(name string, header []string, records [][]string) *Dataset {
	columns := uniqueColumns(header)
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(columns))
		copy(row, rec)
		rows[i] = row
	}

	return &Dataset{name: name, columns: columns, index: index, records: rows}
}

func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[name] {
			base := name
			for n := suffix[base] + 1; ; n++ {
				if cand := fmt.Sprintf("%s.%d", base, n); !used[cand] {
					suffix[base] = n
					name = cand
					break
				}
			}
		}
		used[name] = true
		columns[i] = name
	}
	return columns
}

// Name returns the dataset's name.
func (d *Dataset) Name() string { return d.name }

// Columns returns the column names in display order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// HasColumn reports whether the dataset has a column with the exact name.
func (d *Dataset) HasColumn(column string) bool {
	_, ok := d.index[column]
	return ok
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.records) }

// Row returns the i-th row (0-based).
func (d *Dataset) Row(i int) Row {
	return Row{index: d.index, values: d.records[i]}
}

// column returns the values of column in row order, or nil if absent.
func (d *Dataset) column(column string) []string {
	pos, ok := d.index[column]
	if !ok {
		return nil
	}
	values := make([]string, len(d.records))
	for i, rec := range d.records {
		values[i] = rec[pos]
	}
	return values
}

// IsMissing reports whether a cell value counts as missing.
func IsMissing(v string) bool {
	return strings.TrimSpace(v) == ""
}

// BoolCount is the yes/no breakdown of one boolean column over a set of rows.
type BoolCount struct {
	Column string
	Yes    int
	No     int
}

// Group is the set of rows sharing one categorical value.
type Group struct {
	Label string
	Count int
	Bools []BoolCount
}

// Section is one grouping view over the filtered rows.
type Section struct {
	Column  string
	Present bool // false when the dataset has no such column
	Groups  []Group
}

// Summary is the structured result of one filter-and-group flow.
type Summary struct {
	Dataset     string
	Kind        DatasetKind
	Column      string
	Value       string
	Total       int
	BoolColumns []string
	Sections    []Section

	// Totals holds whole-subset boolean counts for comparison datasets with
	// no grouping column.
	Totals []BoolCount
}

// Section returns the section grouped by column.
func (s Summary) Section(column string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Column == column {
			return sec, sec.Present
		}
	}
	return Section{}, false
}
