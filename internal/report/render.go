package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Format selects how a table is rendered.
type Format int

const (
	FormatText Format = iota
	FormatCSV
)

// Table is a rendered-ready report table. The first column holds labels, the
// others numbers.
type Table struct {
	Title  string
	Format Format
	Header []string
	Rows   [][]string
}

// Block is a group of tables printed under one banner.
type Block struct {
	Banner string
	Tables []Table
}

const rule = "------------------------------------------------------------------------"

// Write renders blocks to w in order.
func Write(w io.Writer, blocks []Block) error {
	for _, b := range blocks {
		if err := WriteBlock(w, b); err != nil {
			return err
		}
	}
	return nil
}

// WriteBlock renders one banner and its tables.
func WriteBlock(w io.Writer, b Block) error {
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", rule, b.Banner, rule); err != nil {
		return err
	}
	for _, t := range b.Tables {
		var err error
		switch t.Format {
		case FormatCSV:
			err = RenderCSV(w, t)
		default:
			err = RenderText(w, t)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderText writes t as an aligned plain-text table: labels left-aligned,
// numbers right-aligned, one blank line after.
func RenderText(w io.Writer, t Table) error {
	widths := make([]int, len(t.Header))
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}

	var b strings.Builder
	b.WriteString(t.Title)
	b.WriteByte('\n')
	writeRow := func(row []string) {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i == 0 {
				b.WriteString(runewidth.FillRight(cell, widths[i]))
				continue
			}
			b.WriteString("  ")
			b.WriteString(runewidth.FillLeft(cell, widths[i]))
		}
		b.WriteByte('\n')
	}
	writeRow(t.Header)
	for _, row := range t.Rows {
		writeRow(row)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderCSV writes t's title, a blank line, then header and rows as CSV.
func RenderCSV(w io.Writer, t Table) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", t.Title); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func itoa(n int) string { return strconv.Itoa(n) }
