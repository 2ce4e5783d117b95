// Package obslog is a thin shim over dlog so call sites across the crawler
// stay terse (log.Warnf(...), log.Debugf(...)) without spreading a direct
// dlog import through every package.
package obslog

import (
	"io"
	"os"

	"github.com/rohmanhakim/dlog"
)

// Logger wraps a dlog.Logger writing logfmt-encoded lines.
type Logger struct {
	inner *dlog.Logger
}

// New returns a Logger writing to os.Stderr.
func New() *Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter returns a Logger writing to w, for tests that want to
// capture output.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{inner: dlog.New(w)}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || l.inner == nil {
		return
	}
	l.inner.Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	if l == nil || l.inner == nil {
		return
	}
	l.inner.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	if l == nil || l.inner == nil {
		return
	}
	l.inner.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil || l.inner == nil {
		return
	}
	l.inner.Errorf(format, args...)
}
