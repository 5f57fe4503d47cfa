package optics2d

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler discards every record; Enabled returns false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used by the package. Passing nil restores the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// DebugLog logs at debug level when Debug is set.
func DebugLog(format string, args ...any) {
	if !Debug {
		return
	}
	Logger().Debug(fmt.Sprintf(format, args...))
}

var onceKeys sync.Map // map[string]struct{}

// DebugLogOnce logs the message only the first time a given key is seen.
func DebugLogOnce(key, format string, args ...any) {
	if !Debug {
		return
	}
	if _, loaded := onceKeys.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	Logger().Debug(fmt.Sprintf(format, args...))
}
