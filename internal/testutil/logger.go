// Package testutil provides shared helpers for framelint's tests.
package testutil

import (
	"log/slog"
	"strings"
	"testing"
)

// NewTestLogger returns a logger whose records land in t.Log, so runner
// progress from a lint run only surfaces when the test fails or runs
// with -v. Debug level is kept: the per-file "analyzed file" events are
// the interesting part when a runner test goes wrong.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(tbWriter{tb: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type tbWriter struct {
	tb testing.TB
}

// Write forwards one record per t.Log call, trimming the handler's
// trailing newline so test output stays single-spaced.
func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
