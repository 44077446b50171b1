package report

import (
	"math"
	"sort"
)

// Cell is the accumulated counts of one (category, dimension) pair.
type Cell struct {
	Total int
	Yes   int
	No    int
}

func (c Cell) add(o Cell) Cell {
	return Cell{Total: c.Total + o.Total, Yes: c.Yes + o.Yes, No: c.No + o.No}
}

// Row is one rendered category of a CrossTab. Cells align with Dims.
type Row struct {
	Label string
	Cells []Cell
}

// Sum returns the sum of the row's cells.
func (r Row) Sum() Cell {
	var s Cell
	for _, c := range r.Cells {
		s = s.add(c)
	}
	return s
}

type entry struct {
	rank  int
	cells map[string]Cell
}

// CrossTab accumulates counts keyed by category and a fixed set of
// dimensions. Accumulation is a commutative, associative fold: any order of
// Add and Merge calls yields the same Rows.
//
// A CrossTab is not safe for concurrent use.
type CrossTab struct {
	dims    []string
	dimSet  map[string]bool
	entries map[string]*entry
}

// NewCrossTab creates an empty table with the given dimensions as columns.
func NewCrossTab(dims ...string) *CrossTab {
	t := &CrossTab{
		dims:    append([]string(nil), dims...),
		dimSet:  make(map[string]bool, len(dims)),
		entries: make(map[string]*entry),
	}
	for _, d := range dims {
		t.dimSet[d] = true
	}
	return t
}

// Dims returns the table's dimensions in column order.
func (t *CrossTab) Dims() []string {
	return append([]string(nil), t.dims...)
}

// Add accumulates c under (category, dim) with no ordering rank.
// Returns false, adding nothing, when dim is not a column of the table.
func (t *CrossTab) Add(category, dim string, c Cell) bool {
	return t.AddRanked(category, dim, math.MaxInt, c)
}

// AddRanked is Add with a rank: rows are listed by their lowest rank seen,
// then by label.
func (t *CrossTab) AddRanked(category, dim string, rank int, c Cell) bool {
	if !t.dimSet[dim] {
		return false
	}
	e := t.entry(category)
	e.rank = min(e.rank, rank)
	e.cells[dim] = e.cells[dim].add(c)
	return true
}

// Touch ensures category has a row, even if nothing is added to it.
func (t *CrossTab) Touch(category string, rank int) {
	e := t.entry(category)
	e.rank = min(e.rank, rank)
}

func (t *CrossTab) entry(category string) *entry {
	e, ok := t.entries[category]
	if !ok {
		e = &entry{rank: math.MaxInt, cells: make(map[string]Cell)}
		t.entries[category] = e
	}
	return e
}

// Merge adds every cell of o into t. Dimensions t does not have are dropped.
func (t *CrossTab) Merge(o *CrossTab) {
	for cat, oe := range o.entries {
		e := t.entry(cat)
		e.rank = min(e.rank, oe.rank)
		for dim, c := range oe.cells {
			if t.dimSet[dim] {
				e.cells[dim] = e.cells[dim].add(c)
			}
		}
	}
}

// Len returns the number of categories.
func (t *CrossTab) Len() int { return len(t.entries) }

// Get returns the cell of (category, dim).
func (t *CrossTab) Get(category, dim string) Cell {
	if e, ok := t.entries[category]; ok {
		return e.cells[dim]
	}
	return Cell{}
}

// Rows returns every category ordered by rank, then label.
func (t *CrossTab) Rows() []Row {
	labels := make([]string, 0, len(t.entries))
	for cat := range t.entries {
		labels = append(labels, cat)
	}
	sort.Slice(labels, func(i, j int) bool {
		ri, rj := t.entries[labels[i]].rank, t.entries[labels[j]].rank
		if ri != rj {
			return ri < rj
		}
		return labels[i] < labels[j]
	})

	rows := make([]Row, len(labels))
	for i, cat := range labels {
		e := t.entries[cat]
		cells := make([]Cell, len(t.dims))
		for j, d := range t.dims {
			cells[j] = e.cells[d]
		}
		rows[i] = Row{Label: cat, Cells: cells}
	}
	return rows
}

// Totals returns the column-wise sum over all rows, aligned with Dims.
func (t *CrossTab) Totals() []Cell {
	totals := make([]Cell, len(t.dims))
	for _, e := range t.entries {
		for j, d := range t.dims {
			totals[j] = totals[j].add(e.cells[d])
		}
	}
	return totals
}
