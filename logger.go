package panel

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := slog.New(slog.DiscardHandler)
	if os.Getenv("PANEL_DEBUG") != "" {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	loggerPtr.Store(l)
}

// SetLogger configures the logger used by all displays and transports.
//
// By default nothing is logged, unless PANEL_DEBUG is set in the environment, in which
// case debug output goes to stderr. Pass nil to disable logging.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
