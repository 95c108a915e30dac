// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// Sink receives events that could not be delivered to Kafka.
//
// Append may be called from the goroutine that appended the event or from a
// Kafka client goroutine.
type Sink interface {
	Append(e *Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(e *Event)

// Append implements Sink.
func (f SinkFunc) Append(e *Event) {
	f(e)
}

// SlogSink writes events to a *slog.Logger.
type SlogSink struct {
	Logger *slog.Logger
}

// Append implements Sink.
func (s SlogSink) Append(e *Event) {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}

	attrs := make([]slog.Attr, 0, len(e.Context)+3)
	if e.LoggerName != "" {
		attrs = append(attrs, slog.String(AttrLogger, e.LoggerName))
	}
	if e.ThreadName != "" {
		attrs = append(attrs, slog.String(AttrThread, e.ThreadName))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, e.Context[k]))
	}

	l.LogAttrs(context.Background(), parseLevel(e.Level), e.Message, attrs...)
}

// parseLevel maps level names to slog levels; unknown names map to INFO.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE", "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "FATAL", "CRITICAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
