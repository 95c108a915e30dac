// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// nopLogger, the default logger, drops everything.
type nopLogger struct{}

func (*nopLogger) Level() kgo.LogLevel { return kgo.LogLevelNone }
func (*nopLogger) Log(kgo.LogLevel, string, ...any) {
}

// SlogLogger adapts a *slog.Logger to the kgo.Logger interface so it can be
// used for both Appender.Logger and Appender.ClientLogger.
//
// Do not point it at a logger whose handler feeds the same Appender when using
// it as ClientLogger; use NewClientLogger for that instead.
func SlogLogger(l *slog.Logger, level kgo.LogLevel) kgo.Logger {
	if l == nil {
		return &nopLogger{}
	}
	return &slogLogger{l: l, level: level}
}

type slogLogger struct {
	l     *slog.Logger
	level kgo.LogLevel
}

func (s *slogLogger) Level() kgo.LogLevel { return s.level }

func (s *slogLogger) Log(level kgo.LogLevel, msg string, keyvals ...any) {
	s.l.Log(context.Background(), slogLevel(level), msg, keyvals...)
}

func slogLevel(level kgo.LogLevel) slog.Level {
	switch level {
	case kgo.LogLevelError:
		return slog.LevelError
	case kgo.LogLevelWarn:
		return slog.LevelWarn
	case kgo.LogLevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
