// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package dust

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records.
// Enabled returns false, so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var logger atomic.Pointer[slog.Logger]

func init() { logger.Store(slog.New(nopHandler{})) }

// SetLogger sets the logger used by dust and its
// sub-packages.
// By default, nothing is logged. Passing nil restores
// the default.
//
// Levels used:
//   - slog.LevelDebug: buffer sizes, uploads, compiled shaders
//   - slog.LevelInfo: driver registration
//   - slog.LevelWarn: replaced drivers, skipped input
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger { return logger.Load() }
