// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"strings"
	"time"
)

// Event is a single log event as produced by the host logging framework.
//
// Events are treated as read-only once handed to an Appender; they may be
// processed on a different goroutine than the one that created them.
type Event struct {
	// Time is when the event happened. The zero time is rendered as no
	// timestamp at all.
	Time time.Time

	// Level is the severity as text, e.g. "ERROR".
	Level string

	// LoggerName identifies the logger that emitted the event. Events whose
	// logger name starts with ClientLoggerPrefix are deferred.
	LoggerName string

	// ThreadName identifies the emitting goroutine or worker, if known.
	ThreadName string

	// Message is the formatted log message.
	Message string

	// Err is the error attached to the event, if any.
	Err error

	// Stack is an optional goroutine stack dump (as from runtime/debug.Stack)
	// captured together with Err.
	Stack string

	// Args are positional message arguments.
	Args []any

	// Context is the keyed diagnostic context (MDC) of the event.
	Context map[string]string

	// Marker is an optional classification marker.
	Marker string

	// NDC is the nested diagnostic context rendered as text.
	NDC string

	// Source is the code location that emitted the event, if known.
	Source *Source
}

// Source is the code location of an Event.
type Source struct {
	// Function is the package-qualified function name, e.g.
	// "github.com/acme/app/server.(*Server).Serve".
	Function string
	File     string
	Line     int
}

// simpleFunction strips the package path from the function name, keeping the
// receiver and function, e.g. "server.(*Server).Serve" → "(*Server).Serve".
func (s *Source) simpleFunction() string {
	fn := s.Function
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		fn = fn[i+1:]
	}
	if i := strings.Index(fn, "."); i >= 0 {
		fn = fn[i+1:]
	}
	return fn
}

// millis returns the event time as epoch milliseconds, 0 for the zero time.
func (e *Event) millis() int64 {
	if e.Time.IsZero() {
		return 0
	}
	return e.Time.UnixMilli()
}
