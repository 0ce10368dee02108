package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init installs the process-wide logger.
// Development: text output at Debug. Production: JSON at Info.
// When sentryDSN is set, Error records are also forwarded to Sentry.
func Init(isDev bool, sentryDSN string) {
	handlers := []slog.Handler{stdoutHandler(os.Stdout, isDev)}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	Log = slog.New(combine(handlers))
	slog.SetDefault(Log)

	if sentryDSN != "" && len(handlers) == 1 {
		Log.Warn("sentry disabled, initialization failed")
	}
}

// Flush waits for buffered Sentry events to be delivered. Safe to call without Sentry.
func Flush() {
	sentry.Flush(2 * time.Second)
}

func stdoutHandler(w io.Writer, isDev bool) slog.Handler {
	if isDev {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

func combine(handlers []slog.Handler) slog.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}
	return slogmulti.Fanout(handlers...)
}
