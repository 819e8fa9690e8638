// Package logging provides the leveled logger used across the viewport.
//
// Lines are formatted as "[prefix] LEVEL: message". Debug and info go to
// one writer, warnings and errors to another, so a CLI can keep its stdout
// clean of problems.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Logger is the logging surface every package accepts. Implementations
// must be safe for concurrent use.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Level is the severity of one log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "LEVEL?"
	}
}

// DefaultLogger writes through the standard library log package. Debug
// output is off until enabled.
type DefaultLogger struct {
	debug  atomic.Bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

var (
	_ Logger = (*DefaultLogger)(nil)
	_ Logger = nopLogger{}
)

// NewDefaultLogger logs info and debug to stdout, warnings and errors to
// stderr.
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(prefix, debug, os.Stdout, os.Stderr)
}

// NewWriterLogger is NewDefaultLogger with explicit destinations.
func NewWriterLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
	l.debug.Store(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool { return l.debug.Load() }

func (l *DefaultLogger) SetDebug(enabled bool) { l.debug.Store(enabled) }

func (l *DefaultLogger) write(lv Level, format string, args ...any) {
	dst := l.out
	if lv >= LevelWarn {
		dst = l.err
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		dst.Printf("%s: %s", lv, msg)
		return
	}
	dst.Printf("[%s] %s: %s", l.prefix, lv, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.DebugEnabled() {
		l.write(LevelDebug, format, args...)
	}
}

func (l *DefaultLogger) Infof(format string, args ...any)  { l.write(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.write(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.write(LevelError, format, args...) }

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// OrNop returns l, or a no-op logger if l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
