// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log provides the small leveled logger used throughout upk. It is
// deliberately minimal: a Logger writes key/value pairs, a Filter drops
// entries below a level, and a Helper adds printf-style convenience methods.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is a logging severity.
type Level int8

// Severities, lowest to highest.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal sink interface the rest of upk depends on.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes tab-separated key/value pairs to an io.Writer.
type stdLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdLogger returns a Logger that writes to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.w, "%s level=%s", time.Now().Format(time.RFC3339), level)
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			fmt.Fprintf(l.w, " %v=%v", keyvals[i], keyvals[i+1])
		}
	}
	fmt.Fprintln(l.w)
	return nil
}

// filter wraps a Logger and drops entries below level.
type filter struct {
	next  Logger
	level Level
}

// Option configures a Filter.
type Option func(*filter)

// FilterLevel sets the minimum level that passes through the filter.
func FilterLevel(level Level) Option {
	return func(f *filter) {
		f.level = level
	}
}

// NewFilter returns a Logger that forwards to next only entries at or above
// the configured level (LevelInfo by default).
func NewFilter(next Logger, opts ...Option) Logger {
	f := &filter{next: next, level: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods on top of a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with printf-style convenience methods.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, msg string) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, "msg", msg)
}

// Debug logs at debug level.
func (h *Helper) Debug(msg string) { h.log(LevelDebug, msg) }

// Debugf logs a formatted message at debug level.
func (h *Helper) Debugf(format string, args ...interface{}) {
	h.log(LevelDebug, fmt.Sprintf(format, args...))
}

// Info logs at info level.
func (h *Helper) Info(msg string) { h.log(LevelInfo, msg) }

// Infof logs a formatted message at info level.
func (h *Helper) Infof(format string, args ...interface{}) {
	h.log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn logs at warn level.
func (h *Helper) Warn(msg string) { h.log(LevelWarn, msg) }

// Warnf logs a formatted message at warn level.
func (h *Helper) Warnf(format string, args ...interface{}) {
	h.log(LevelWarn, fmt.Sprintf(format, args...))
}

// Error logs at error level.
func (h *Helper) Error(msg string) { h.log(LevelError, msg) }

// Errorf logs a formatted message at error level.
func (h *Helper) Errorf(format string, args ...interface{}) {
	h.log(LevelError, fmt.Sprintf(format, args...))
}

// DefaultLogger is a filtered stdout logger at error level, used whenever
// the caller does not supply one explicitly.
var DefaultLogger = NewFilter(NewStdLogger(os.Stdout), FilterLevel(LevelError))
