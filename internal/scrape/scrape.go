// Package scrape extracts grouped counts from captured filter session text.
//
// A section starts at its header line ("Symptoms and counts:") and ends at
// the first blank line. Each group line has the shape
//
//	<label> Total=<N> | <Column>: Yes=<N>, No=<N> | ...
//
// and may be followed by continuation lines (indented, no trailing count field)
// holding the rest of a wrapped label. Lines that match neither shape are
// skipped and counted; they never abort parsing.
package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/cheri-cve/internal/console"
	"github.com/JonMunkholm/cheri-cve/internal/core"
)

var (
	lineRe   = regexp.MustCompile(`^(.+)\s+Total=\s*(\d+)((?:\s*\|.*)?)$`)
	pairRe   = regexp.MustCompile(`\|\s*(.+?):\s*Yes=(\d+),\s*No=(\d+)`)
	filterRe = regexp.MustCompile(`(?m)^Filtering rows where (.+?) = '(.*)'\s*$`)
)

// Pair is one boolean column's yes/no counts within a group line.
type Pair struct {
	Label string
	Yes   int
	No    int
}

// Tuple is one parsed group line.
type Tuple struct {
	Label string
	Total int
	Pairs []Pair
}

// Pair returns the pair for column label.
func (t Tuple) Pair(label string) (Pair, bool) {
	for _, p := range t.Pairs {
		if p.Label == label {
			return p, true
		}
	}
	return Pair{}, false
}

// Stats counts what a parse saw.
type Stats struct {
	Sections      int
	Tuples        int
	Continuations int
	Skipped       int // lines matching no known shape
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Sections += o.Sections
	s.Tuples += o.Tuples
	s.Continuations += o.Continuations
	s.Skipped += o.Skipped
}

// Err returns a ParseMismatch error when any line was skipped.
func (s Stats) Err() error {
	if s.Skipped == 0 {
		return nil
	}
	return core.Errorf(core.KindParseMismatch, "scrape sections",
		"%d line(s) matched no group or continuation shape", s.Skipped)
}

// Section returns the tuples of the first section titled header, or nil when
// the text has no such section.
func Section(text, header string) []Tuple {
	sections, _ := Sections(text, header)
	if len(sections) == 0 {
		return nil
	}
	return sections[0]
}

// ColumnSection returns the first section grouped by column.
func ColumnSection(text, column string) ([]Tuple, Stats) {
	sections, st := Sections(text, console.SectionHeader(column))
	if len(sections) == 0 {
		return nil, st
	}
	return sections[0], st
}

// Sections returns the tuples of every section titled header, in text order.
func Sections(text, header string) ([][]Tuple, Stats) {
	var (
		st  Stats
		out [][]Tuple
	)
	lines := splitLines(text)
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != header {
			continue
		}
		st.Sections++
		tuples, next := parseSection(lines, i+1, &st)
		out = append(out, tuples)
		i = next
	}
	return out, st
}

// parseSection parses group lines from lines[start:] up to the first blank
// line and returns the tuples and the index of the terminating line.
func parseSection(lines []string, start int, st *Stats) ([]Tuple, int) {
	tuples := []Tuple{}
	cur := -1

	i := start
	for ; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}

		if strings.HasPrefix(line, console.ContinuationIndent) && !lineRe.MatchString(trimmed) {
			if cur < 0 {
				st.Skipped++
				continue
			}
			tuples[cur].Label += " " + trimmed
			st.Continuations++
			continue
		}

		t, ok := parseLine(trimmed)
		if !ok {
			st.Skipped++
			cur = -1
			continue
		}
		tuples = append(tuples, t)
		cur = len(tuples) - 1
		st.Tuples++
	}
	return tuples, i
}

func parseLine(line string) (Tuple, bool) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Tuple{}, false
	}
	total, err := strconv.Atoi(m[2])
	if err != nil {
		return Tuple{}, false
	}

	t := Tuple{Label: strings.TrimSpace(m[1]), Total: total}
	for _, pm := range pairRe.FindAllStringSubmatch(m[3], -1) {
		yes, err1 := strconv.Atoi(pm[2])
		no, err2 := strconv.Atoi(pm[3])
		if err1 != nil || err2 != nil {
			continue
		}
		t.Pairs = append(t.Pairs, Pair{Label: strings.TrimSpace(pm[1]), Yes: yes, No: no})
	}
	return t, true
}

// FilterHeader returns the column and value of the first filter reported in
// text.
func FilterHeader(text string) (column, value string, ok bool) {
	m := filterRe.FindStringSubmatch(strings.ReplaceAll(text, "\r\n", "\n"))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
