package core

// filter.go implements the filter-and-group flow behind one interactive query:
//
//  1. Resolve a 1-based column choice to a column name
//  2. List the column's distinct non-missing values in first-occurrence order
//  3. Resolve a 1-based value choice and keep the rows equal to it
//  4. Group the subset by Symptoms and by Causes (independent views) and count
//     the boolean outcome columns per group

import (
	"sort"
	"strings"
)

// ColumnAt resolves a 1-based column choice.
func (d *Dataset) ColumnAt(choice int) (string, error) {
	if choice < 1 || choice > len(d.columns) {
		return "", Errorf(KindInputValidation, "column choice",
			"%d is outside 1-%d", choice, len(d.columns))
	}
	return d.columns[choice-1], nil
}

// DistinctValues returns the non-missing values of column in first-occurrence
// order. Returns nil if the column does not exist.
func (d *Dataset) DistinctValues(column string) []string {
	var values []string
	seen := make(map[string]bool)
	for _, v := range d.column(column) {
		if IsMissing(v) || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// ValueAt resolves a 1-based value choice against a distinct value list.
func ValueAt(values []string, choice int) (string, error) {
	if choice < 1 || choice > len(values) {
		return "", Errorf(KindInputValidation, "value choice",
			"%d is outside 1-%d", choice, len(values))
	}
	return values[choice-1], nil
}

// Filter returns the rows whose column equals value exactly, in dataset order.
// The subset shares d's columns; an unknown column yields an empty subset.
func (d *Dataset) Filter(column, value string) *Dataset {
	sub := &Dataset{name: d.name, columns: d.columns, index: d.index}
	if !d.HasColumn(column) {
		return sub
	}
	for i, rec := range d.records {
		if d.Row(i).Value(column) == value {
			sub.records = append(sub.records, rec)
		}
	}
	return sub
}

// GroupBy groups d's rows by column and counts each of boolCols per group.
//
// Groups are ordered by descending size, ties broken by first occurrence.
// Rows with a missing grouping value form the BlankLabel group so the group
// counts always sum to d.Len().
func (d *Dataset) GroupBy(column string, boolCols []string) []Group {
	pos, ok := d.index[column]
	if !ok {
		return nil
	}

	type bucket struct {
		label string
		first int
		rows  [][]string
	}
	var order []*bucket
	byLabel := make(map[string]*bucket)

	for i, rec := range d.records {
		label := rec[pos]
		if IsMissing(label) {
			label = BlankLabel
		}
		b, ok := byLabel[label]
		if !ok {
			b = &bucket{label: label, first: i}
			byLabel[label] = b
			order = append(order, b)
		}
		b.rows = append(b.rows, rec)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if len(order[i].rows) != len(order[j].rows) {
			return len(order[i].rows) > len(order[j].rows)
		}
		return order[i].first < order[j].first
	})

	groups := make([]Group, len(order))
	for i, b := range order {
		sub := &Dataset{name: d.name, columns: d.columns, index: d.index, records: b.rows}
		g := Group{Label: b.label, Count: len(b.rows)}
		for _, bc := range boolCols {
			g.Bools = append(g.Bools, CountBools(bc, sub.column(bc)))
		}
		groups[i] = g
	}
	return groups
}

// Summarize groups an already filtered subset and computes the outcome counts
// for the given dataset kind.
//
// General datasets report OutcomeCHERI when the column exists. Comparison
// datasets report every boolean-like column detected on the subset, and fall
// back to whole-subset totals when neither grouping column exists.
func Summarize(subset *Dataset, kind DatasetKind, column, value string) Summary {
	s := Summary{
		Dataset: subset.Name(),
		Kind:    kind,
		Column:  column,
		Value:   value,
		Total:   subset.Len(),
	}

	switch kind {
	case KindComparison:
		s.BoolColumns = subset.BoolColumns()
	default:
		if subset.HasColumn(OutcomeCHERI) {
			s.BoolColumns = []string{OutcomeCHERI}
		}
	}

	grouped := false
	for _, gc := range GroupColumns {
		sec := Section{Column: gc, Present: subset.HasColumn(gc)}
		if sec.Present {
			sec.Groups = subset.GroupBy(gc, s.BoolColumns)
			grouped = true
		}
		s.Sections = append(s.Sections, sec)
	}

	if kind == KindComparison && !grouped {
		for _, bc := range s.BoolColumns {
			s.Totals = append(s.Totals, CountBools(bc, subset.column(bc)))
		}
	}
	return s
}

// MatchesColumn reports whether name equals column ignoring case and
// surrounding whitespace.
func MatchesColumn(name, column string) bool {
	return strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(column))
}
