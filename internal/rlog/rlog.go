// Package rlog provides the small structured-logging wrapper the
// compiler and VM use for --verbose tracing. It never carries
// user-facing program output — print/println opcodes write straight to
// stdout — only internal diagnostics such as VM opcode dispatch and
// compiler function declarations.
package rlog

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger, no-op when tracing is disabled.
type Logger struct {
	enabled bool
	zl      zerolog.Logger
}

// New creates a Logger tagged with component (e.g. "compiler", "vm").
// When enabled is false, every trace call is a no-op.
func New(component string, enabled bool) Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
		With().
		Timestamp().
		Str("component", component).
		Logger()
	return Logger{enabled: enabled, zl: zl}
}

// Trace logs a verbose-only diagnostic message with key/value pairs
// (alternating key, value, key, value...).
func (l Logger) Trace(msg string, kv ...any) {
	if !l.enabled {
		return
	}
	ev := l.zl.Debug()
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}
