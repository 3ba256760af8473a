package grove

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
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

// SetLogger configures the logger used by grove and its backend packages.
// By default grove is silent. Pass nil to restore the silent default.
//
// Log levels used by grove:
//   - [slog.LevelDebug]: registration cascades, frame timing (debug mode only)
//   - [slog.LevelInfo]: engine start and stop
//   - [slog.LevelWarn]: deep trees, oversized child lists, dropped input, playback failures
//
// Example:
//
//	grove.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Backend packages (ebitengine, terminal,
// audio, physics) call this so one SetLogger call configures all of them.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
