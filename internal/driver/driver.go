// Package driver runs one complete filter session non-interactively: it feeds
// a fixed list of menu answers to the session and captures everything the
// session prints.
//
// Two transports are provided. InProcess runs a fresh console.Session over
// in-memory buffers and also captures the structured summaries it reports.
// Exec runs the cherictl binary's filter command as a child process, which is
// the process-as-API arrangement the text protocol was designed for.
//
// Every run is isolated (no dataset cache is shared between runs) and bounded
// by a timeout. A run that does not finish in time fails with
// core.KindRunFailed; no run is retried.
package driver

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/cheri-cve/internal/core"
)

// DefaultTimeout bounds a run when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Script is the ordered list of menu answers for one run. The quit choice is
// appended by the driver.
type Script struct {
	Answers []int
}

// Input renders the script as the session's stdin, one answer per line,
// ending with quit.
func (s Script) Input(quit int) string {
	var b strings.Builder
	for _, a := range s.Answers {
		b.WriteString(strconv.Itoa(a))
		b.WriteByte('\n')
	}
	b.WriteString(strconv.Itoa(quit))
	b.WriteByte('\n')
	return b.String()
}

func (s Script) String() string {
	parts := make([]string, len(s.Answers))
	for i, a := range s.Answers {
		parts[i] = strconv.Itoa(a)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Result is the captured output of one run.
type Result struct {
	RunID      string
	Transcript string

	// Summaries holds the structured results reported during the run, in
	// order. Only transports that run the session in-process fill it.
	Summaries []core.Summary
}

// Driver executes scripted filter sessions.
type Driver interface {
	Run(ctx context.Context, script Script) (*Result, error)
}

type options struct {
	timeout   time.Duration
	wrapWidth int
	args      []string
	env       []string
}

// Option configures a transport.
type Option func(*options)

// WithTimeout bounds each run. Non-positive values select DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithWrapWidth sets the session's label wrap width (InProcess only).
func WithWrapWidth(width int) Option {
	return func(o *options) { o.wrapWidth = width }
}

// WithArgs replaces the child process arguments (Exec only).
func WithArgs(args ...string) Option {
	return func(o *options) { o.args = args }
}

// WithEnv appends KEY=value entries to the child environment (Exec only).
func WithEnv(env ...string) Option {
	return func(o *options) { o.env = append(o.env, env...) }
}

func buildOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout, args: []string{"filter"}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	return o
}

// runFailed wraps err as a KindRunFailed error for script.
func runFailed(script Script, err error) error {
	return core.NewError(core.KindRunFailed, "run "+script.String(), err)
}
