// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FieldKind tags the variant of a Field.
type FieldKind int

const (
	// StaticField is a fixed name/value pair.
	StaticField FieldKind = iota

	// LogField maps a name to a well-known event attribute (see NamedField).
	LogField

	// ContextField maps a name to a single context (MDC) key.
	ContextField

	// DynamicContextField matches a Pattern against every context key and
	// emits one field per matching key, named after the key.
	DynamicContextField
)

// String returns the string representation of the FieldKind.
func (k FieldKind) String() string {
	switch k {
	case StaticField:
		return "static"
	case LogField:
		return "log"
	case ContextField:
		return "context"
	case DynamicContextField:
		return "dynamic-context"
	default:
		return "unknown"
	}
}

// NamedField enumerates the event attributes a LogField can refer to.
type NamedField string

const (
	NamedTime                 NamedField = "Time"
	NamedSeverity             NamedField = "Severity"
	NamedThread               NamedField = "Thread"
	NamedSourceFile           NamedField = "SourceFile"
	NamedSourceFunction       NamedField = "SourceFunction"
	NamedSourceSimpleFunction NamedField = "SourceSimpleFunction"
	NamedSourceLineNumber     NamedField = "SourceLineNumber"
	NamedServer               NamedField = "Server" // host name of this process
	NamedLoggerName           NamedField = "LoggerName"
	NamedMarker               NamedField = "Marker"
	NamedNDC                  NamedField = "NDC"
)

var namedFields = []NamedField{
	NamedTime,
	NamedSeverity,
	NamedThread,
	NamedSourceFile,
	NamedSourceFunction,
	NamedSourceSimpleFunction,
	NamedSourceLineNumber,
	NamedServer,
	NamedLoggerName,
	NamedMarker,
	NamedNDC,
}

// NamedFieldByName looks up a NamedField ignoring case. The second return
// value is false if name is not a known attribute.
func NamedFieldByName(name string) (NamedField, bool) {
	for _, nf := range namedFields {
		if strings.EqualFold(string(nf), name) {
			return nf, true
		}
	}
	return "", false
}

// Field describes how one or more output fields are extracted from an Event.
//
// Field is comparable; two fields are the same descriptor when they are ==.
// Use the constructor functions rather than filling in the struct directly.
type Field struct {
	Kind FieldKind

	// Name is the output field name (static, log and context kinds).
	Name string

	// Value is the fixed value of a static field.
	Value string

	// Named is the attribute referenced by a log field.
	Named NamedField

	// Key is the context key read by a context field.
	Key string

	// Pattern is matched against context keys by a dynamic context field.
	Pattern Pattern
}

// StaticFieldOf returns a field that always yields name=value.
func StaticFieldOf(name, value string) Field {
	return Field{Kind: StaticField, Name: name, Value: value}
}

// LogFieldOf returns a field that yields the named event attribute.
func LogFieldOf(name string, named NamedField) Field {
	return Field{Kind: LogField, Name: name, Named: named}
}

// ContextFieldOf returns a field that yields the context value stored under
// key, if present.
func ContextFieldOf(name, key string) Field {
	return Field{Kind: ContextField, Name: name, Key: key}
}

// DynamicContextFieldOf returns a field that yields every context entry whose
// key matches pattern.
func DynamicContextFieldOf(pattern Pattern) Field {
	return Field{Kind: DynamicContextField, Pattern: pattern}
}

// DefaultLogFields returns one LogField per supported attribute, each named
// after the attribute. Without arguments every attribute is included.
func DefaultLogFields(supported ...NamedField) []Field {
	if len(supported) == 0 {
		supported = namedFields
	}

	fields := make([]Field, 0, len(supported))
	for _, nf := range namedFields {
		for _, s := range supported {
			if s == nf {
				fields = append(fields, LogFieldOf(string(nf), nf))
				break
			}
		}
	}
	return fields
}

// FieldValue is a single resolved output field.
type FieldValue struct {
	Name  string
	Value string
}

// resolve extracts the field's values from e. Absent attributes produce no
// values. LogFields bound to Time are formatted by the Assembler instead.
func (f Field) resolve(e *Event) []FieldValue {
	switch f.Kind {
	case StaticField:
		return []FieldValue{{Name: f.Name, Value: f.Value}}
	case LogField:
		return f.resolveLog(e)
	case ContextField:
		return f.resolveContext(e)
	case DynamicContextField:
		return f.resolveDynamic(e)
	}
	return nil
}

func (f Field) resolveLog(e *Event) []FieldValue {
	var value string

	switch f.Named {
	case NamedTime:
		if e.Time.IsZero() {
			return nil
		}
		value = strconv.FormatInt(e.millis(), 10)
	case NamedSeverity:
		value = e.Level
	case NamedThread:
		value = e.ThreadName
	case NamedSourceFile:
		if e.Source != nil {
			value = e.Source.File
		}
	case NamedSourceFunction:
		if e.Source != nil {
			value = e.Source.Function
		}
	case NamedSourceSimpleFunction:
		if e.Source != nil {
			value = e.Source.simpleFunction()
		}
	case NamedSourceLineNumber:
		if e.Source != nil && e.Source.Line > 0 {
			value = strconv.Itoa(e.Source.Line)
		}
	case NamedServer:
		value = hostname()
	case NamedLoggerName:
		value = e.LoggerName
	case NamedMarker:
		value = e.Marker
	case NamedNDC:
		value = e.NDC
	}

	if value == "" {
		return nil
	}
	return []FieldValue{{Name: f.Name, Value: value}}
}

func (f Field) resolveContext(e *Event) []FieldValue {
	value, ok := e.Context[f.Key]
	if !ok {
		return nil
	}
	return []FieldValue{{Name: f.Name, Value: value}}
}

func (f Field) resolveDynamic(e *Event) []FieldValue {
	if len(e.Context) == 0 {
		return nil
	}

	m, err := f.Pattern.compile()
	if err != nil {
		return nil
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		if m.matches(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([]FieldValue, 0, len(keys))
	for _, k := range keys {
		values = append(values, FieldValue{Name: k, Value: e.Context[k]})
	}
	return values
}

// String implements fmt.Stringer.
func (f Field) String() string {
	switch f.Kind {
	case StaticField:
		return fmt.Sprintf("Field [kind=%s, name='%s', value='%s']", f.Kind, f.Name, f.Value)
	case LogField:
		return fmt.Sprintf("Field [kind=%s, name='%s', named=%s]", f.Kind, f.Name, f.Named)
	case ContextField:
		return fmt.Sprintf("Field [kind=%s, name='%s', key='%s']", f.Kind, f.Name, f.Key)
	default:
		return fmt.Sprintf("Field [kind=%s, pattern='%s']", f.Kind, f.Pattern)
	}
}

var hostname = sync.OnceValue(func() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
})
