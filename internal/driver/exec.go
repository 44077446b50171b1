package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/JonMunkholm/cheri-cve/internal/logging"
)

// waitDelay bounds how long a killed child may hold its output pipes open.
const waitDelay = 2 * time.Second

// Exec runs each script through a child cherictl process.
type Exec struct {
	path string
	quit int
	opts options
}

// NewExec creates a driver that runs path with the filter command. quit is
// the child's quit menu choice.
func NewExec(path string, quit int, opts ...Option) *Exec {
	return &Exec{path: path, quit: quit, opts: buildOptions(opts)}
}

// Run executes script in a child process and returns its stdout.
func (d *Exec) Run(ctx context.Context, script Script) (*Result, error) {
	ctx, runID := logging.WithRunID(ctx)
	ctx, cancel := context.WithTimeout(ctx, d.opts.timeout)
	defer cancel()

	log := logging.FromContext(ctx)
	log.Debug("run started", "transport", "exec", "path", d.path, "script", script.String())

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.path, d.opts.args...)
	cmd.Stdin = strings.NewReader(script.Input(d.quit))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	if len(d.opts.env) > 0 {
		cmd.Env = append(os.Environ(), d.opts.env...)
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, lastLine(msg))
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Warn("child exited", "code", exitErr.ExitCode())
		}
		return nil, runFailed(script, err)
	}

	log.Debug("run finished", "bytes", stdout.Len())
	return &Result{RunID: runID, Transcript: stdout.String()}, nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
