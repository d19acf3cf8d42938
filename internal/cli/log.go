// Package cli implements the twbisect command-line interface.
//
// This package wires the bisection pipeline to cobra commands: solving an
// instance, printing and browsing its nice tree decomposition, rendering the
// graph and the tree, serving the HTTP API, and managing the result cache.
//
// # Commands
//
// The main commands are:
//   - solve: Compute the maximum bisection weight of a .gr/.td pair
//   - normalize: Print nice tree decomposition statistics and its layer table
//   - visualize: Render the graph or the nice tree to SVG, DOT, PDF or PNG
//   - inspect: Browse the layers of a nice tree decomposition interactively
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Without it the
// level comes from log_level in the config file, which defaults to info.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Solved instance (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
