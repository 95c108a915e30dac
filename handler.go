// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"
)

// Attribute keys the Handler maps to Event fields instead of the context.
// They are only recognized outside of groups.
const (
	AttrLogger = "logger"
	AttrThread = "thread"
	AttrMarker = "marker"
	AttrNDC    = "ndc"
)

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Level is the minimum level handled.
	// Default: slog.LevelInfo.
	Level slog.Leveler

	// LoggerName is used for records without a "logger" attribute.
	LoggerName string

	// AddSource records the calling function, file and line.
	AddSource bool

	// CaptureStack stores the goroutine stack on records carrying an error.
	CaptureStack bool
}

// Handler is a slog.Handler that turns records into Events and appends them
// to a Sink, usually an *Appender.
//
//	a := &logkafka.Appender{...}
//	a.Start()
//	logger := slog.New(logkafka.NewHandler(a, nil))
//	logger.Error("disk full", "logger", "storage", "mount", "/var")
//
// The first error-valued attribute becomes Event.Err. All other attributes are
// flattened into Event.Context, group names joined with ".".
type Handler struct {
	opts  HandlerOptions
	sink  Sink
	attrs []prefixedAttr
	group string
}

type prefixedAttr struct {
	prefix string
	attr   slog.Attr
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler returns a Handler appending to sink. opts may be nil.
func NewHandler(sink Sink, opts *HandlerOptions) *Handler {
	h := &Handler{sink: sink}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	e := &Event{
		Time:       r.Time,
		Level:      levelName(r.Level),
		LoggerName: h.opts.LoggerName,
		Message:    r.Message,
		Context:    make(map[string]string, len(h.attrs)+r.NumAttrs()),
	}

	for _, pa := range h.attrs {
		h.add(e, pa.prefix, pa.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.add(e, h.group, a)
		return true
	})

	if h.opts.AddSource && r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		e.Source = &Source{Function: f.Function, File: f.File, Line: f.Line}
	}

	if h.opts.CaptureStack && e.Err != nil {
		e.Stack = string(debug.Stack())
	}

	h.sink.Append(e)
	return nil
}

func (h *Handler) add(e *Event, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return
		}
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range group {
			h.add(e, prefix, ga)
		}
		return
	}

	if prefix == "" {
		switch a.Key {
		case AttrLogger:
			e.LoggerName = a.Value.String()
			return
		case AttrThread:
			e.ThreadName = a.Value.String()
			return
		case AttrMarker:
			e.Marker = a.Value.String()
			return
		case AttrNDC:
			e.NDC = a.Value.String()
			return
		}
	}

	if err, ok := a.Value.Any().(error); ok && e.Err == nil {
		e.Err = err
		return
	}

	var value string
	if a.Value.Kind() == slog.KindTime {
		value = a.Value.Time().Format(time.RFC3339Nano)
	} else {
		value = a.Value.String()
	}
	e.Context[prefix+a.Key] = value
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	h2 := *h
	h2.attrs = make([]prefixedAttr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(h2.attrs, h.attrs)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, prefixedAttr{prefix: h.group, attr: a})
	}
	return &h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	h2 := *h
	h2.group = h.group + name + "."
	return &h2
}

// levelName renders slog levels the way log configuration files spell them.
func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
