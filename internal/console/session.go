// Package console runs the interactive filter session: pick a dataset, a
// column and a value, then print grouped counts for the matching rows.
//
// The session is an explicit state machine:
//
//	AwaitingTopChoice --dataset--> AwaitingColumn --valid--> AwaitingValue --valid--> Reporting
//	        ^   |                        |                        |                      |
//	        |   +--invalid (re-prompt)   +--invalid---------------+--invalid             |
//	        +------------------------------------------------------------------------------+
//	AwaitingTopChoice --quit or EOF--> Terminated
//
// An invalid column or value choice aborts only the current flow and returns
// to the dataset menu. End of input in any state terminates the session.
package console

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/cheri-cve/internal/core"
	"github.com/JonMunkholm/cheri-cve/internal/logging"
)

// State is a session state.
type State int

const (
	AwaitingTopChoice State = iota
	AwaitingColumn
	AwaitingValue
	Reporting
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingTopChoice:
		return "awaiting top choice"
	case AwaitingColumn:
		return "awaiting column"
	case AwaitingValue:
		return "awaiting value"
	case Reporting:
		return "reporting"
	case Terminated:
		return "terminated"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Loader loads a catalog dataset.
type Loader interface {
	Load(ctx context.Context, info core.DatasetInfo) (*core.Dataset, error)
}

// Option configures a Session.
type Option func(*Session)

// WithWrapWidth wraps group labels wider than width columns.
func WithWrapWidth(width int) Option {
	return func(s *Session) { s.wrap = width }
}

// WithSummaryHook calls fn with every summary the session reports, in order.
func WithSummaryHook(fn func(core.Summary)) Option {
	return func(s *Session) { s.onSummary = fn }
}

// flow is the selection state of one dataset/column/value pass.
type flow struct {
	info   core.DatasetInfo
	ds     *core.Dataset
	column string
	values []string
	value  string
}

// Session is one interactive filter session.
type Session struct {
	catalog   *core.Catalog
	loader    Loader
	in        *bufio.Scanner
	out       *Renderer
	wrap      int
	onSummary func(core.Summary)

	state State
	flow  flow
	cache map[string]*core.Dataset
}

// NewSession creates a session reading answers from in and writing to out.
func NewSession(catalog *core.Catalog, loader Loader, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		catalog: catalog,
		loader:  loader,
		in:      bufio.NewScanner(in),
		state:   AwaitingTopChoice,
		cache:   make(map[string]*core.Dataset),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.out = NewRenderer(out, s.wrap)
	return s
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Run steps the session until it terminates, the context is done, or output
// fails.
func (s *Session) Run(ctx context.Context) error {
	for s.state != Terminated {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step performs one state transition.
func (s *Session) Step(ctx context.Context) error {
	switch s.state {
	case AwaitingTopChoice:
		s.awaitTopChoice(ctx)
	case AwaitingColumn:
		s.awaitColumn(ctx)
	case AwaitingValue:
		s.awaitValue(ctx)
	case Reporting:
		s.report(ctx)
	}
	if err := s.in.Err(); err != nil {
		return err
	}
	return s.out.Err()
}

// readChoice reads the next answer. ok is false at end of input.
func (s *Session) readChoice() (choice int, valid, ok bool) {
	if !s.in.Scan() {
		return 0, false, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s.in.Text()))
	if err != nil {
		return 0, false, true
	}
	return n, true, true
}

func (s *Session) awaitTopChoice(ctx context.Context) {
	entries := s.catalog.All()
	s.out.Menu(entries)

	choice, valid, ok := s.readChoice()
	if !ok || (valid && choice == len(entries)+1) {
		s.state = Terminated
		return
	}
	if !valid || choice < 1 || choice > len(entries) {
		err := core.Errorf(core.KindInputValidation, "menu choice",
			"%d is outside 1-%d", choice, len(entries)+1)
		s.out.Notice(core.Describe(err).Message)
		return
	}

	info := entries[choice-1]
	ds, err := s.dataset(ctx, info)
	if err != nil {
		logging.FromContext(ctx).Warn("dataset unavailable",
			"dataset", info.Key,
			"code", core.DescribeCode(err),
			"error", err,
		)
		s.out.Notice("Dataset unavailable: " + core.Describe(err).Message + ".")
		return
	}

	s.flow = flow{info: info, ds: ds}
	s.out.Columns(ds.Columns())
	s.state = AwaitingColumn
}

func (s *Session) awaitColumn(ctx context.Context) {
	choice, _, ok := s.readChoice()
	if !ok {
		s.state = Terminated
		return
	}

	// A non-numeric answer reads as choice 0, which ColumnAt rejects.
	column, err := s.flow.ds.ColumnAt(choice)
	if err != nil {
		s.reject(ctx, err)
		return
	}

	s.flow.column = column
	s.flow.values = s.flow.ds.DistinctValues(column)
	s.out.Values(column, s.flow.values)
	s.state = AwaitingValue
}

func (s *Session) awaitValue(ctx context.Context) {
	choice, _, ok := s.readChoice()
	if !ok {
		s.state = Terminated
		return
	}

	value, err := core.ValueAt(s.flow.values, choice)
	if err != nil {
		s.reject(ctx, err)
		return
	}

	s.flow.value = value
	s.state = Reporting
}

func (s *Session) report(ctx context.Context) {
	f := s.flow
	subset := f.ds.Filter(f.column, f.value)
	summary := core.Summarize(subset, f.info.Kind, f.column, f.value)

	s.out.Summary(summary)
	if s.onSummary != nil {
		s.onSummary(summary)
	}

	logging.FromContext(ctx).Debug("filter reported",
		"dataset", f.info.Key,
		"column", f.column,
		"value", f.value,
		"rows", summary.Total,
	)

	s.flow = flow{}
	s.state = AwaitingTopChoice
}

// reject aborts the current flow after an invalid column or value choice.
func (s *Session) reject(ctx context.Context, err error) {
	msg := core.Describe(err)
	logging.FromContext(ctx).Debug("invalid choice",
		"dataset", s.flow.info.Key,
		"code", msg.Code,
		"error", err,
	)
	s.out.Notice(msg.Message)
	s.flow = flow{}
	s.state = AwaitingTopChoice
}

func (s *Session) dataset(ctx context.Context, info core.DatasetInfo) (*core.Dataset, error) {
	if ds, ok := s.cache[info.Key]; ok {
		return ds, nil
	}
	ds, err := s.loader.Load(ctx, info)
	if err != nil {
		return nil, err
	}
	s.cache[info.Key] = ds
	return ds, nil
}

// Run executes a complete session over in and out.
func Run(ctx context.Context, catalog *core.Catalog, loader Loader, in io.Reader, out io.Writer, opts ...Option) error {
	return NewSession(catalog, loader, in, out, opts...).Run(ctx)
}
