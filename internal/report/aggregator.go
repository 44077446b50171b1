// Package report builds the cross-tabulation tables: it runs a fixed matrix
// of scripted filter sessions, parses each transcript (or takes the
// structured summaries directly), canonicalizes category labels and folds the
// counts into CrossTabs.
//
// Runs are independent. With parallelism above one they execute
// concurrently, but every fold into a shared table happens under one lock, so
// the result is the same for any run order.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/cheri-cve/internal/core"
	"github.com/JonMunkholm/cheri-cve/internal/driver"
	"github.com/JonMunkholm/cheri-cve/internal/logging"
	"github.com/JonMunkholm/cheri-cve/internal/scrape"
)

// Workflow names accepted by Generate.
const (
	WorkflowPlatform   = "platform"
	WorkflowCauses     = "causes"
	WorkflowTechnology = "technology"
	WorkflowAll        = "all"
)

// Workflows lists the selectable workflows.
var Workflows = []string{WorkflowPlatform, WorkflowCauses, WorkflowTechnology, WorkflowAll}

// Aggregator runs report workflows through a driver.
type Aggregator struct {
	driver      driver.Driver
	catalog     *core.Catalog
	matrix      *Matrix
	normalizer  *core.CategoryNormalizer
	parallelism int
	direct      bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithParallelism sets how many runs may be in flight at once.
func WithParallelism(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.parallelism = n
		}
	}
}

// WithDirect reads the structured summaries captured by the driver instead of
// scraping transcripts. The driver must run sessions in-process.
func WithDirect(direct bool) Option {
	return func(a *Aggregator) { a.direct = direct }
}

// WithNormalizer replaces the category normalizer.
func WithNormalizer(n *core.CategoryNormalizer) Option {
	return func(a *Aggregator) { a.normalizer = n }
}

// New creates an aggregator. catalog resolves dataset keys to menu choices
// and must match the catalog the driver's sessions see.
func New(d driver.Driver, catalog *core.Catalog, m *Matrix, opts ...Option) *Aggregator {
	a := &Aggregator{
		driver:      d,
		catalog:     catalog,
		matrix:      m,
		normalizer:  core.NewCategoryNormalizer(core.DefaultCategoryRules),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate runs the named workflow and returns its tables.
func (a *Aggregator) Generate(ctx context.Context, workflow string) ([]Block, error) {
	switch strings.ToLower(workflow) {
	case WorkflowPlatform:
		return a.PlatformTables(ctx)
	case WorkflowCauses:
		b, ok, err := a.CauseManifestationTable(ctx)
		if err != nil || !ok {
			return nil, err
		}
		return []Block{b}, nil
	case WorkflowTechnology:
		return a.TechnologyTables(ctx)
	case WorkflowAll, "":
		return a.All(ctx)
	default:
		return nil, core.Errorf(core.KindInputValidation, "table choice",
			"unknown table %q (want one of: %s)", workflow, strings.Join(Workflows, ", "))
	}
}

// All runs the platform, cause-vs-manifestation and technology workflows in
// that order.
func (a *Aggregator) All(ctx context.Context) ([]Block, error) {
	blocks, err := a.PlatformTables(ctx)
	if err != nil {
		return nil, err
	}
	causes, ok, err := a.CauseManifestationTable(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		blocks = append(blocks, causes)
	}
	tech, err := a.TechnologyTables(ctx)
	if err != nil {
		return nil, err
	}
	return append(blocks, tech...), nil
}

// observation is what one run reported.
type observation struct {
	filtered bool
	column   string
	value    string
	sections map[string][]scrape.Tuple
}

// job is one run. tally counts its observation into fresh partial tables,
// one per target and with the target's dimensions; runAll then merges each
// part into its target.
type job struct {
	name    string
	script  driver.Script
	targets []*CrossTab
	tally   func(obs observation, parts []*CrossTab)
}

// script prefixes answers with the menu choice of dataset.
func (a *Aggregator) script(dataset string, answers ...int) (driver.Script, bool) {
	choice, ok := a.catalog.MenuChoice(dataset)
	if !ok {
		return driver.Script{}, false
	}
	return driver.Script{Answers: append([]int{choice}, answers...)}, true
}

// runAll executes jobs, merging each successful run's tables under one lock.
// A failed run is logged and contributes nothing; only cancellation of ctx
// aborts.
func (a *Aggregator) runAll(ctx context.Context, workflow string, jobs []job) error {
	log := logging.WithFields(ctx, "workflow", workflow)

	var (
		mu     sync.Mutex
		stats  scrape.Stats
		failed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallelism)

	for _, j := range jobs {
		j := j // per-iteration copy (go 1.21 loop semantics)
		g.Go(func() error {
			res, err := a.driver.Run(gctx, j.script)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("run failed, contributing nothing",
					"run", j.name,
					"code", core.DescribeCode(err),
					"error", err,
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			obs, st := a.observe(res)
			parts := make([]*CrossTab, len(j.targets))
			for i, t := range j.targets {
				parts[i] = NewCrossTab(t.Dims()...)
			}
			j.tally(obs, parts)

			mu.Lock()
			defer mu.Unlock()
			stats.Add(st)
			for i, t := range j.targets {
				t.Merge(parts[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := stats.Err(); err != nil {
		log.Info("skipped unrecognized report lines",
			"lines", stats.Skipped,
			"kind", core.KindOf(err).String(),
			"error", err,
		)
	}
	log.Debug("workflow runs complete",
		"runs", len(jobs),
		"failed", failed,
		"tuples", stats.Tuples,
		"continuations", stats.Continuations,
	)
	return nil
}

// observe extracts the filter and grouped sections of one run.
func (a *Aggregator) observe(res *driver.Result) (observation, scrape.Stats) {
	if a.direct {
		if len(res.Summaries) == 0 {
			return observation{}, scrape.Stats{}
		}
		return fromSummary(res.Summaries[0]), scrape.Stats{}
	}

	var (
		obs = observation{sections: make(map[string][]scrape.Tuple)}
		st  scrape.Stats
	)
	obs.column, obs.value, obs.filtered = scrape.FilterHeader(res.Transcript)
	for _, col := range core.GroupColumns {
		tuples, s := scrape.ColumnSection(res.Transcript, col)
		st.Add(s)
		if tuples != nil {
			obs.sections[col] = tuples
		}
	}
	return obs, st
}

// fromSummary converts a structured summary into the tuples a transcript of
// it would parse to.
func fromSummary(s core.Summary) observation {
	obs := observation{
		filtered: true,
		column:   s.Column,
		value:    s.Value,
		sections: make(map[string][]scrape.Tuple),
	}
	for _, sec := range s.Sections {
		if !sec.Present {
			continue
		}
		tuples := make([]scrape.Tuple, 0, len(sec.Groups))
		for _, g := range sec.Groups {
			t := scrape.Tuple{Label: g.Label, Total: g.Count}
			for _, bc := range g.Bools {
				t.Pairs = append(t.Pairs, scrape.Pair{Label: bc.Column, Yes: bc.Yes, No: bc.No})
			}
			tuples = append(tuples, t)
		}
		obs.sections[sec.Column] = tuples
	}
	return obs
}

// canonical normalizes a category label, noting labels no rule covers.
func (a *Aggregator) canonical(gaps *gapLog, label string) string {
	out, matched := a.normalizer.Normalize(label)
	if !matched {
		gaps.note(out)
	}
	return out
}

// gapLog reports each label no category rule covers once per table.
// It is safe for concurrent use.
type gapLog struct {
	log   *slog.Logger
	table string

	mu   sync.Mutex
	seen map[string]bool
}

func newGapLog(log *slog.Logger, table string) *gapLog {
	return &gapLog{log: log, table: table, seen: make(map[string]bool)}
}

// note logs label the first time it is seen and returns the gap error; a
// label already reported returns nil.
func (g *gapLog) note(label string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen[label] {
		return nil
	}
	g.seen[label] = true

	err := core.Errorf(core.KindNormalizationGap, "normalize category", "no rule covers %q", label)
	g.log.Debug("category passed through unnormalized",
		"table", g.table,
		"label", label,
		"error", err,
	)
	return err
}

func skipped(ctx context.Context, what, dataset string) {
	logging.FromContext(ctx).Info(fmt.Sprintf("skipping %s; dataset not in catalog", what),
		"dataset", dataset)
}
