// Package logger provides a thin wrapper around zerolog.Logger used by the
// translation relay.
//
// Logger embeds zerolog.Logger so the full zerolog API is available on
// *Logger. Entries are JSON lines on stdout, which the Lambda runtime ships
// to CloudWatch Logs.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

var setGlobals sync.Once

// configureGlobals sets the zerolog caller settings shared by every logger.
func configureGlobals() {
	setGlobals.Do(func() {
		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			return runtime.FuncForPC(pc).Name()
		}
		zerolog.CallerFieldName = "func"
	})
}

// NewLogger constructs a *Logger for the given role label writing to
// os.Stdout. level is a zerolog level name ("debug", "info", ...); an
// unknown or empty name falls back to info.
//
// Every entry carries the role, a timestamp and a "func" caller field
// holding the fully-qualified function name.
func NewLogger(role, level string) *Logger {
	return New(os.Stdout, role, level)
}

// New is NewLogger with an explicit writer.
func New(w io.Writer, role, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	configureGlobals()

	logger := zerolog.New(w).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// Nop returns a *Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithContext returns a copy of ctx carrying l.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext returns the logger attached to ctx by WithContext, or
// fallback when ctx carries none.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return &Logger{*l}
	}
	return fallback
}
