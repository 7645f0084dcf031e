// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger is the leveled logging interface shared by the panel driver
// and the dashboard loop.
package logger

import (
	"fmt"
	"log"
	"os"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "PISTATS_DEBUG"

// Logger logs printf-style messages at four levels.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type stdLogger struct {
	prefix string
	debug  bool
}

// New returns a Logger writing through the standard log package. Every
// message is prefixed with prefix, e.g. "[st7789]".
func New(prefix string, debug bool) Logger {
	return &stdLogger{prefix: prefix, debug: debug || os.Getenv(DebugEnv) != ""}
}

func (l *stdLogger) line(level, format string) string {
	s := format
	if level != "" {
		s = level + ": " + s
	}
	if l.prefix != "" {
		s = l.prefix + " " + s
	}
	return s
}

func (l *stdLogger) Debug(format string, args ...interface{}) {
	if l.debug {
		log.Printf(l.line("", format), args...)
	}
}

func (l *stdLogger) Info(format string, args ...interface{}) {
	log.Printf(l.line("", format), args...)
}

func (l *stdLogger) Warn(format string, args ...interface{}) {
	log.Printf(l.line("WARN", format), args...)
}

func (l *stdLogger) Error(format string, args ...interface{}) {
	log.Printf(l.line("ERROR", format), args...)
}

type noopLogger struct{}

// Noop returns a Logger that discards everything.
func Noop() Logger { return noopLogger{} }

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Message is one captured log line.
type Message struct {
	Level   string
	Message string
}

// BufferLogger records messages in memory for assertions in tests.
type BufferLogger struct {
	Messages []Message
}

// NewBufferLogger returns an empty BufferLogger.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{}
}

func (b *BufferLogger) add(level, format string, args []interface{}) {
	b.Messages = append(b.Messages, Message{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (b *BufferLogger) Debug(format string, args ...interface{}) { b.add("debug", format, args) }
func (b *BufferLogger) Info(format string, args ...interface{})  { b.add("info", format, args) }
func (b *BufferLogger) Warn(format string, args ...interface{})  { b.add("warn", format, args) }
func (b *BufferLogger) Error(format string, args ...interface{}) { b.add("error", format, args) }

// HasLevel reports whether any message was logged at level.
func (b *BufferLogger) HasLevel(level string) bool {
	for _, m := range b.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

var defaultLogger = New("", false)

// Default returns the process-wide logger.
func Default() Logger { return defaultLogger }

// SetDefault replaces the process-wide logger.
func SetDefault(l Logger) { defaultLogger = l }
