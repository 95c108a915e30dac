// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerHandle(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	logger := slog.New(NewHandler(sink, &HandlerOptions{LoggerName: "default"}))

	boom := errors.New("boom")
	at := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	logger.Error("disk full",
		AttrLogger, "storage",
		AttrThread, "worker-1",
		AttrMarker, "ALERT",
		AttrNDC, "req outer",
		"error", boom,
		"other", errors.New("second"),
		"mount", "/var",
		"count", 3,
		"at", at,
	)

	events := sink.Events()
	require.Len(t, events, 1)
	e := events[0]

	assert.Equal(t, "ERROR", e.Level)
	assert.Equal(t, "disk full", e.Message)
	assert.Equal(t, "storage", e.LoggerName)
	assert.Equal(t, "worker-1", e.ThreadName)
	assert.Equal(t, "ALERT", e.Marker)
	assert.Equal(t, "req outer", e.NDC)
	assert.Same(t, boom, e.Err)
	assert.Empty(t, e.Stack)
	assert.Nil(t, e.Source)
	assert.False(t, e.Time.IsZero())
	assert.Equal(t, map[string]string{
		"other": "second",
		"mount": "/var",
		"count": "3",
		"at":    "2024-05-01T10:00:00Z",
	}, e.Context)
}

func TestHandlerDefaultLoggerName(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	slog.New(NewHandler(sink, &HandlerOptions{LoggerName: "app"})).Info("m")

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "app", events[0].LoggerName)
}

func TestHandlerGroupsAndAttrs(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	logger := slog.New(NewHandler(sink, nil)).
		With("service", "api").
		WithGroup("req").
		With("id", "r-1", AttrLogger, "not-special")

	logger.Info("m", slog.Group("user", "name", "ann"), slog.Group("empty"))

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Empty(t, events[0].LoggerName)
	assert.Equal(t, map[string]string{
		"service":       "api",
		"req.id":        "r-1",
		"req.logger":    "not-special",
		"req.user.name": "ann",
	}, events[0].Context)
}

func TestHandlerEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		opts  *HandlerOptions
		level slog.Level
		want  bool
	}{
		{name: "default info", level: slog.LevelInfo, want: true},
		{name: "default debug", level: slog.LevelDebug, want: false},
		{name: "warn threshold", opts: &HandlerOptions{Level: slog.LevelWarn}, level: slog.LevelInfo, want: false},
		{name: "debug threshold", opts: &HandlerOptions{Level: slog.LevelDebug}, level: slog.LevelDebug, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(&recordingSink{}, tt.opts)
			assert.Equal(t, tt.want, h.Enabled(context.Background(), tt.level))
		})
	}
}

func TestHandlerSourceAndStack(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	logger := slog.New(NewHandler(sink, &HandlerOptions{AddSource: true, CaptureStack: true}))

	logger.Info("no error")
	logger.Error("failed", "error", errors.New("boom"))

	events := sink.Events()
	require.Len(t, events, 2)

	require.NotNil(t, events[0].Source)
	assert.True(t, strings.HasSuffix(events[0].Source.Function, "TestHandlerSourceAndStack"))
	assert.True(t, strings.HasSuffix(events[0].Source.File, "handler_test.go"))
	assert.Positive(t, events[0].Source.Line)
	assert.Empty(t, events[0].Stack)

	assert.Contains(t, events[1].Stack, "goroutine")
}

func TestLevelName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{level: slog.LevelDebug - 4, want: "DEBUG"},
		{level: slog.LevelDebug, want: "DEBUG"},
		{level: slog.LevelInfo, want: "INFO"},
		{level: slog.LevelInfo + 2, want: "INFO"},
		{level: slog.LevelWarn, want: "WARN"},
		{level: slog.LevelError, want: "ERROR"},
		{level: slog.LevelError + 4, want: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, levelName(tt.level))
		})
	}
}
