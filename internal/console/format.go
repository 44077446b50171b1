package console

// format.go renders the session's console text. The layout is the protocol
// scripted runs are scraped with, so everything here is deterministic:
//
//	Symptoms and counts:
//	OOB access Total=3 | Solved by CHERI?: Yes=2, No=1
//	Race condition - Improper usage of Total=2 | Solved by CHERI?: Yes=0, No=2
//	    synchronization primitives
//	<blank line>
//
// A group line starts with the (first segment of the) label followed by
// Total=<N> and one "| <Column>: Yes=<N>, No=<N>" pair per boolean column.
// Labels wider than the wrap width continue on following lines indented by
// ContinuationIndent, without a count field. Every section ends with one
// blank line.

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/JonMunkholm/cheri-cve/internal/core"
)

// Protocol text shared with the scraper.
const (
	MenuHeader         = "Select dataset:"
	SectionSuffix      = " and counts:"
	ContinuationIndent = "    "
	BoolTotalsHeader   = "Boolean totals:"
	QuitLabel          = "Quit"
)

// SectionHeader returns the header line of the section grouped by column.
func SectionHeader(column string) string {
	return column + SectionSuffix
}

// FilterHeader returns the line announcing the active filter.
func FilterHeader(column, value string) string {
	return fmt.Sprintf("Filtering rows where %s = '%s'", column, value)
}

// Renderer writes session text and remembers the first write error.
type Renderer struct {
	w    io.Writer
	wrap int
	err  error
}

// NewRenderer creates a renderer wrapping labels wider than wrap columns.
// A wrap of 0 disables wrapping.
func NewRenderer(w io.Writer, wrap int) *Renderer {
	return &Renderer{w: w, wrap: wrap}
}

// Err returns the first write error, if any.
func (r *Renderer) Err() error { return r.err }

func (r *Renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) println(line string) {
	r.printf("%s\n", line)
}

// Menu writes the top-level dataset menu and its prompt.
func (r *Renderer) Menu(entries []core.DatasetInfo) {
	r.println(MenuHeader)
	choices := make([]string, 0, len(entries)+1)
	for i, e := range entries {
		r.printf("%d. %s\n", i+1, e.Label)
		choices = append(choices, strconv.Itoa(i+1))
	}
	quit := len(entries) + 1
	r.printf("%d. %s\n", quit, QuitLabel)
	choices = append(choices, strconv.Itoa(quit))
	r.printf("Enter %s: ", strings.Join(choices, " or "))
}

// Columns writes the column list and the column prompt.
func (r *Renderer) Columns(columns []string) {
	r.printf("\nAvailable columns:\n")
	for i, c := range columns {
		r.printf("%d. %s\n", i+1, c)
	}
	r.printf("\nPick column number: ")
}

// Values writes a column's distinct values and the value prompt.
func (r *Renderer) Values(column string, values []string) {
	r.printf("\nValues in '%s':\n", column)
	for i, v := range values {
		r.printf("%d. %s\n", i+1, v)
	}
	r.printf("Pick value number: ")
}

// Notice writes a one-line message followed by a blank line.
func (r *Renderer) Notice(msg string) {
	r.printf("%s\n\n", msg)
}

// Summary writes a filter result: the filter header, totals and sections.
func (r *Renderer) Summary(s core.Summary) {
	r.printf("\n%s\n", FilterHeader(s.Column, s.Value))
	r.printf("Total rows: %d\n\n", s.Total)

	if s.Kind == core.KindComparison && len(s.BoolColumns) == 0 {
		r.Notice("No boolean-like columns found.")
		return
	}

	grouped := false
	for _, sec := range s.Sections {
		if !sec.Present {
			if s.Kind == core.KindGeneral {
				r.Notice(fmt.Sprintf("No '%s' column found.", sec.Column))
			}
			continue
		}
		grouped = true
		r.println(SectionHeader(sec.Column))
		for _, g := range sec.Groups {
			for _, line := range GroupLines(g, r.wrap) {
				r.println(line)
			}
		}
		r.println("")
	}

	if s.Kind == core.KindComparison && !grouped {
		r.println(BoolTotalsHeader)
		for _, bc := range s.Totals {
			r.printf("%s: Yes=%d, No=%d\n", bc.Column, bc.Yes, bc.No)
		}
		r.println("")
	}
}

// GroupLines formats one group as its protocol lines.
func GroupLines(g core.Group, wrap int) []string {
	parts := wrapLabel(g.Label, wrap)

	var b strings.Builder
	b.WriteString(parts[0])
	fmt.Fprintf(&b, " Total=%d", g.Count)
	for _, bc := range g.Bools {
		fmt.Fprintf(&b, " | %s: Yes=%d, No=%d", bc.Column, bc.Yes, bc.No)
	}

	lines := []string{b.String()}
	for _, p := range parts[1:] {
		lines = append(lines, ContinuationIndent+p)
	}
	return lines
}

// wrapLabel splits label into display segments no wider than width where
// word boundaries allow. Always returns at least one segment.
func wrapLabel(label string, width int) []string {
	label = strings.Join(strings.Fields(label), " ")
	if label == "" {
		return []string{core.BlankLabel}
	}
	if width <= 0 || runewidth.StringWidth(label) <= width {
		return []string{label}
	}

	// Break at spaces only so segments rejoin with a single space.
	ww := wordwrap.NewWriter(width)
	ww.Breakpoints = nil
	_, _ = ww.Write([]byte(label))
	_ = ww.Close()

	var parts []string
	for _, line := range strings.Split(ww.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	if len(parts) == 0 {
		return []string{label}
	}
	return parts
}
