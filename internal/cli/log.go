// Package cli implements the rnagraph command-line interface.
//
// The commands read secondary structures from files or stdin, build their
// element graphs through the cached pipeline and write text formats, render
// diagrams, list loops, browse elements interactively or serve the HTTP API.
//
// # Commands
//
//   - build: convert structures between bg, fasta, bpseq and json
//   - describe: summarize a graph and tabulate its elements
//   - loops: list and classify multiloops and open loops
//   - render: write dot, svg, png or pdf diagrams and text artifacts
//   - explore: browse elements in a terminal UI
//   - serve: run the HTTP API
//   - cache: manage the local build cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/rnagraph/config.toml or the file
// named by --config; flags override them.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the duration of a sequential operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Built 3 graphs (12ms)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached with withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
