package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/cheri-cve/internal/core"
	"github.com/JonMunkholm/cheri-cve/internal/logging"
	"github.com/JonMunkholm/cheri-cve/internal/scrape"
)

// PlatformTables builds Tables 1 (by manifestation) and 2 (by cause) for each
// revocation mode: per-category outcome counts for every operating system.
func (a *Aggregator) PlatformTables(ctx context.Context) ([]Block, error) {
	p := a.matrix.Platform
	log := logging.WithFields(ctx, "workflow", WorkflowPlatform)

	var blocks []Block
	for _, mode := range p.Modes {
		table1 := fmt.Sprintf("TABLE 1 (%s): Manifestation-centric view", mode.Label)
		table2 := fmt.Sprintf("TABLE 2 (%s): Cause-centric view", mode.Label)
		symptoms, symptomGaps := NewCrossTab(p.Systems...), newGapLog(log, table1)
		causes, causeGaps := NewCrossTab(p.Systems...), newGapLog(log, table2)

		var jobs []job
		for _, run := range mode.Runs {
			run := run // per-iteration copy (go 1.21 loop semantics)
			script, ok := a.script(mode.Dataset, run.Answers...)
			if !ok {
				break
			}
			jobs = append(jobs, job{
				name:    mode.Label + "/" + run.System,
				script:  script,
				targets: []*CrossTab{symptoms, causes},
				tally: func(obs observation, parts []*CrossTab) {
					a.foldOutcome(symptomGaps, parts[0], obs.sections[core.ColumnSymptoms], run.System, p.Outcome)
					a.foldOutcome(causeGaps, parts[1], obs.sections[core.ColumnCauses], run.System, p.Outcome)
				},
			})
		}
		if len(jobs) < len(mode.Runs) {
			skipped(ctx, "platform tables ("+mode.Label+")", mode.Dataset)
			continue
		}

		if err := a.runAll(ctx, WorkflowPlatform, jobs); err != nil {
			return nil, err
		}
		blocks = append(blocks, Block{
			Banner: fmt.Sprintf("Generating Tables 1 and 2 (%s)", mode.Label),
			Tables: []Table{
				platformTable(table1, symptoms),
				platformTable(table2, causes),
			},
		})
	}
	return blocks, nil
}

func (a *Aggregator) foldOutcome(gaps *gapLog, t *CrossTab, tuples []scrape.Tuple, dim, outcome string) {
	for i, tp := range tuples {
		pair, ok := tp.Pair(outcome)
		if !ok {
			continue
		}
		t.AddRanked(a.canonical(gaps, tp.Label), dim, i, Cell{Total: tp.Total, Yes: pair.Yes, No: pair.No})
	}
}

func platformTable(title string, t *CrossTab) Table {
	dims := t.Dims()
	header := []string{"Category"}
	for _, d := range dims {
		header = append(header, d+" Yes", d+" No")
	}
	header = append(header, "Total Yes", "Total No")

	row := func(r Row) []string {
		out := []string{r.Label}
		for _, c := range r.Cells {
			out = append(out, itoa(c.Yes), itoa(c.No))
		}
		sum := r.Sum()
		return append(out, itoa(sum.Yes), itoa(sum.No))
	}
	return Table{Title: title, Header: header, Rows: tableRows(t, row)}
}

// CauseManifestationTable builds Table 4: for each cause value, the row count
// of every listed manifestation. ok is false when the matrix dataset is not
// in the catalog.
func (a *Aggregator) CauseManifestationTable(ctx context.Context) (Block, bool, error) {
	const title = "TABLE 4: Causes and manifestations"
	c := a.matrix.Causes
	log := logging.WithFields(ctx, "workflow", WorkflowCauses)
	gaps := newGapLog(log, title)
	t := NewCrossTab(c.Manifestations...)

	var jobs []job
	for i := 1; i <= c.Values; i++ {
		i := i // per-iteration copy (go 1.21 loop semantics)
		script, ok := a.script(c.Dataset, c.Column, i)
		if !ok {
			skipped(ctx, "cause vs manifestation table", c.Dataset)
			return Block{}, false, nil
		}
		jobs = append(jobs, job{
			name:    "cause " + strconv.Itoa(i),
			script:  script,
			targets: []*CrossTab{t},
			tally: func(obs observation, parts []*CrossTab) {
				if !obs.filtered || !core.MatchesColumn(obs.column, core.ColumnCauses) {
					log.Debug("no cause filter in run output", "value", i)
					return
				}
				part := parts[0]
				cause := a.canonical(gaps, obs.value)
				part.Touch(cause, i)
				for _, tp := range obs.sections[core.ColumnSymptoms] {
					symptom := a.canonical(gaps, tp.Label)
					if !part.AddRanked(cause, symptom, i, Cell{Total: tp.Total}) {
						log.Debug("manifestation not tabulated", "cause", cause, "manifestation", symptom, "rows", tp.Total)
					}
				}
			},
		})
	}

	if err := a.runAll(ctx, WorkflowCauses, jobs); err != nil {
		return Block{}, false, err
	}

	header := append([]string{"Cause vs. Manifestation"}, t.Dims()...)
	header = append(header, "Total")

	row := func(r Row) []string {
		out := []string{r.Label}
		for _, cell := range r.Cells {
			out = append(out, itoa(cell.Total))
		}
		return append(out, itoa(r.Sum().Total))
	}

	return Block{
		Banner: "Generating Table 4 (Cause vs Manifestation) as CSV",
		Tables: []Table{{
			Title:  title,
			Format: FormatCSV,
			Header: header,
			Rows:   tableRows(t, row),
		}},
	}, true, nil
}

// TechnologyTables builds Tables 3 (by cause) and 5 (by manifestation) for
// each revocation mode: outcome counts per category for every technology.
func (a *Aggregator) TechnologyTables(ctx context.Context) ([]Block, error) {
	tm := a.matrix.Technology
	log := logging.WithFields(ctx, "workflow", WorkflowTechnology)

	labels := make([]string, len(tm.Columns))
	for i, col := range tm.Columns {
		labels[i] = col.Label
	}
	versus := strings.Join(labels, " vs ")

	var blocks []Block
	for _, mode := range tm.Modes {
		script, ok := a.script(mode.Dataset, mode.Answers...)
		if !ok {
			skipped(ctx, "technology tables ("+mode.Label+")", mode.Dataset)
			continue
		}

		table3 := fmt.Sprintf("TABLE 3 (%s): %s by Cause", mode.Label, versus)
		table5 := fmt.Sprintf("TABLE 5 (%s): %s by Manifestation", mode.Label, versus)
		causes, causeGaps := NewCrossTab(labels...), newGapLog(log, table3)
		symptoms, symptomGaps := NewCrossTab(labels...), newGapLog(log, table5)
		fold := func(t *CrossTab, gaps *gapLog, tuples []scrape.Tuple) {
			for i, tp := range tuples {
				label := a.canonical(gaps, tp.Label)
				t.Touch(label, i)
				for _, col := range tm.Columns {
					if p, ok := tp.Pair(col.Outcome); ok {
						t.AddRanked(label, col.Label, i, Cell{Total: tp.Total, Yes: p.Yes, No: p.No})
					}
				}
			}
		}
		jobs := []job{{
			name:    mode.Label,
			script:  script,
			targets: []*CrossTab{causes, symptoms},
			tally: func(obs observation, parts []*CrossTab) {
				fold(parts[0], causeGaps, obs.sections[core.ColumnCauses])
				fold(parts[1], symptomGaps, obs.sections[core.ColumnSymptoms])
			},
		}}
		if err := a.runAll(ctx, WorkflowTechnology, jobs); err != nil {
			return nil, err
		}

		blocks = append(blocks, Block{
			Banner: fmt.Sprintf("Generating Tables 3 and 5 (%s)", mode.Label),
			Tables: []Table{
				technologyTable(table3, causes),
				technologyTable(table5, symptoms),
			},
		})
	}
	return blocks, nil
}

func technologyTable(title string, t *CrossTab) Table {
	header := []string{"Category"}
	for _, d := range t.Dims() {
		header = append(header, d+" Yes", d+" No")
	}

	row := func(r Row) []string {
		out := []string{r.Label}
		for _, c := range r.Cells {
			out = append(out, itoa(c.Yes), itoa(c.No))
		}
		return out
	}
	return Table{Title: title, Header: header, Rows: tableRows(t, row)}
}

// tableRows renders every row of t followed by a Total row.
func tableRows(t *CrossTab, row func(Row) []string) [][]string {
	var rows [][]string
	for _, r := range t.Rows() {
		rows = append(rows, row(r))
	}
	return append(rows, row(Row{Label: "Total", Cells: t.Totals()}))
}
