// Package vectorslicer holds the module-wide logger shared by every
// sub-package, following gogpu-gg's logger.go convention: silent by
// default, configured once via SetLogger.
package vectorslicer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by the slicer and all of its
// sub-packages. By default no output is produced. Pass nil to restore
// the silent default.
//
// Log levels: Debug for per-path propagation detail, Info for
// per-pattern lifecycle (paths produced, seeds consumed), Warn for
// recoverable conditions (Splay->Perimeter fallback, unknown config key).
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the currently configured logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
