package driver

import (
	"bytes"
	"context"
	"strings"

	"github.com/JonMunkholm/cheri-cve/internal/console"
	"github.com/JonMunkholm/cheri-cve/internal/core"
	"github.com/JonMunkholm/cheri-cve/internal/logging"
)

// InProcess runs each script against a fresh console session.
type InProcess struct {
	catalog *core.Catalog
	loader  console.Loader
	opts    options
}

// NewInProcess creates a driver over catalog and loader.
func NewInProcess(catalog *core.Catalog, loader console.Loader, opts ...Option) *InProcess {
	return &InProcess{catalog: catalog, loader: loader, opts: buildOptions(opts)}
}

// Run executes script and returns the transcript and captured summaries.
func (d *InProcess) Run(ctx context.Context, script Script) (*Result, error) {
	ctx, runID := logging.WithRunID(ctx)
	ctx, cancel := context.WithTimeout(ctx, d.opts.timeout)
	defer cancel()

	log := logging.FromContext(ctx)
	log.Debug("run started", "transport", "inprocess", "script", script.String())

	var (
		out       bytes.Buffer
		summaries []core.Summary
	)
	sess := console.NewSession(d.catalog, d.loader,
		strings.NewReader(script.Input(d.catalog.QuitChoice())), &out,
		console.WithWrapWidth(d.opts.wrapWidth),
		console.WithSummaryHook(func(s core.Summary) { summaries = append(summaries, s) }),
	)

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			return nil, runFailed(script, err)
		}
	case <-ctx.Done():
		// The session observes ctx between steps and exits on its own.
		return nil, runFailed(script, ctx.Err())
	}

	log.Debug("run finished", "bytes", out.Len(), "summaries", len(summaries))
	return &Result{RunID: runID, Transcript: out.String(), Summaries: summaries}, nil
}
