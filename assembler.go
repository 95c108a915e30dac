// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Names of fields added by the Assembler itself.
const (
	FieldStackTrace   = "StackTrace"
	FieldMessageParam = "MessageParam"
)

// Assembler turns Events into Documents using a list of field descriptors
// and a few extraction flags.
//
// The exported fields are configuration; set them before the Assembler is
// used. The field list and field types may be changed at any time.
type Assembler struct {
	// Facility is applied to every document when not empty.
	Facility string

	// ExtractStackTrace adds the StackTrace field for events carrying an error.
	ExtractStackTrace bool

	// FilterStackTrace removes the frames matching StackFilters from the
	// StackTrace field.
	FilterStackTrace bool

	// MDCProfiling adds the request duration fields derived from the
	// ProfilingRequestStart context entry.
	MDCProfiling bool

	// IncludeFullMDC copies every context entry into the document.
	IncludeFullMDC bool

	// TimestampPattern formats LogFields bound to NamedTime.
	// Default: DefaultTimestampPattern.
	TimestampPattern string

	// Location is the time zone used for formatted times.
	// Default: time.Local.
	Location *time.Location

	// StackFilters are the function prefixes dropped by filtered stack traces.
	// Default: DefaultStackFilters.
	StackFilters []string

	mu         sync.RWMutex
	fields     []Field
	fieldTypes map[string]string

	formatMu      sync.Mutex
	formatPattern string
	format        *timeFormat

	// now is for testing.
	now func() time.Time
}

// NewAssembler returns an Assembler with the default settings and no fields.
func NewAssembler() *Assembler {
	return &Assembler{
		TimestampPattern: DefaultTimestampPattern,
		fieldTypes:       make(map[string]string),
	}
}

// Initialize reads the Assembler configuration from props.
//
// Flags are enabled only by the (case-insensitive) value "true". Numbered
// keys (additionalField0, additionalField1, ...) are read until the first
// missing number; entries without '=' are ignored. Invalid patterns are
// reported once all keys have been read.
func (a *Assembler) Initialize(props PropertySource) error {
	a.ExtractStackTrace = isTrue(props, PropertyExtractStackTrace)
	a.FilterStackTrace = isTrue(props, PropertyFilterStackTrace)
	a.MDCProfiling = isTrue(props, PropertyMDCProfiling)
	a.IncludeFullMDC = isTrue(props, PropertyIncludeFullMDC)

	var errs []error

	for i := 0; ; i++ {
		v, ok := props.Property(PropertyAdditionalField + strconv.Itoa(i))
		if !ok {
			break
		}
		if name, value, ok := strings.Cut(v, "="); ok {
			a.AddField(StaticFieldOf(name, value))
		}
	}

	for i := 0; ; i++ {
		v, ok := props.Property(PropertyAdditionalFieldType + strconv.Itoa(i))
		if !ok {
			break
		}
		if name, fieldType, ok := strings.Cut(v, "="); ok {
			a.SetFieldType(name, fieldType)
		}
	}

	if v, ok := props.Property(PropertyMDCFields); ok {
		a.SetMDCFields(v)
	}

	if v, ok := props.Property(PropertyDynamicMDCFields); ok {
		if err := a.SetDynamicMDCFields(v); err != nil {
			errs = append(errs, err)
		}
	}

	if v, ok := props.Property(PropertyTimestampPattern); ok {
		if _, err := compileTimeFormat(v); err != nil {
			errs = append(errs, err)
		} else {
			a.TimestampPattern = v
		}
	}

	if v, ok := props.Property(PropertyFacility); ok {
		a.Facility = v
	}

	return errors.Join(errs...)
}

func isTrue(props PropertySource, key string) bool {
	v, _ := props.Property(key)
	return strings.EqualFold(v, "true")
}

// AddField registers a field descriptor. Adding a descriptor equal to one
// already registered does nothing.
func (a *Assembler) AddField(f Field) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.addField(f)
}

// AddFields registers every descriptor in fields, skipping duplicates.
func (a *Assembler) AddFields(fields ...Field) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, f := range fields {
		a.addField(f)
	}
}

func (a *Assembler) addField(f Field) {
	if !slices.Contains(a.fields, f) {
		a.fields = append(a.fields, f)
	}
}

// Fields returns a copy of the registered descriptors in registration order.
func (a *Assembler) Fields() []Field {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return slices.Clone(a.fields)
}

// SetFieldType declares the type of an additional field. See the FieldType
// constants for the supported names.
func (a *Assembler) SetFieldType(name, fieldType string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fieldTypes == nil {
		a.fieldTypes = make(map[string]string)
	}
	a.fieldTypes[name] = fieldType
}

// SetAdditionalFields adds static fields from a "name=value,name2=value2"
// list. Entries without '=' are ignored.
func (a *Assembler) SetAdditionalFields(list string) {
	for _, entry := range strings.Split(list, ",") {
		if name, value, ok := strings.Cut(entry, "="); ok {
			a.AddField(StaticFieldOf(name, value))
		}
	}
}

// SetMDCFields adds context fields from a "key,key2" list. Each field is
// named after its key.
func (a *Assembler) SetMDCFields(list string) {
	for _, entry := range strings.Split(list, ",") {
		key := strings.TrimSpace(entry)
		if key == "" {
			continue
		}
		a.AddField(ContextFieldOf(key, key))
	}
}

// SetDynamicMDCFields adds dynamic context fields from a comma separated list
// of patterns. Invalid patterns are skipped and reported.
func (a *Assembler) SetDynamicMDCFields(list string) error {
	var errs []error

	for _, entry := range strings.Split(list, ",") {
		p := Pattern(strings.TrimSpace(entry))
		if p == "" {
			continue
		}
		if err := p.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		a.AddField(DynamicContextFieldOf(p))
	}

	return errors.Join(errs...)
}

// SetAdditionalFieldTypes declares field types from a "name=type,name2=type2"
// list. Entries without '=' are ignored.
func (a *Assembler) SetAdditionalFieldTypes(list string) {
	for _, entry := range strings.Split(list, ",") {
		if name, fieldType, ok := strings.Cut(entry, "="); ok {
			a.SetFieldType(name, fieldType)
		}
	}
}

// Assemble builds the Document for e. Later steps overwrite fields of the
// same name set by earlier ones:
//
//  1. registered field descriptors
//  2. the StackTrace field
//  3. MessageParam0, MessageParam1, ... from e.Args
//  4. profiling fields
//  5. the full context
func (a *Assembler) Assemble(e *Event) *Document {
	message := e.Message
	if isBlank(message) && e.Err != nil {
		message = e.Err.Error()
	}

	a.mu.RLock()
	descriptors := slices.Clone(a.fields)
	types := maps.Clone(a.fieldTypes)
	a.mu.RUnlock()

	fields := make(map[string]string)

	for _, f := range descriptors {
		if f.Kind == LogField && f.Named == NamedTime {
			if !e.Time.IsZero() {
				fields[f.Name] = a.timeFormat().format(e.Time.In(a.location()))
			}
			continue
		}
		for _, fv := range f.resolve(e) {
			fields[fv.Name] = fv.Value
		}
	}

	if a.ExtractStackTrace && e.Err != nil {
		if a.FilterStackTrace {
			fields[FieldStackTrace] = filteredStackTrace(e.Err, e.Stack, a.stackFilters())
		} else {
			fields[FieldStackTrace] = fullStackTrace(e.Err, e.Stack)
		}
	}

	for i, arg := range e.Args {
		fields[FieldMessageParam+strconv.Itoa(i)] = fmt.Sprint(arg)
	}

	if a.MDCProfiling {
		for _, fv := range profilingFields(e, a.clock(), a.location()) {
			fields[fv.Name] = fv.Value
		}
	}

	if a.IncludeFullMDC {
		for k, v := range e.Context {
			if k == "" {
				continue
			}
			fields[k] = v
		}
	}

	return NewDocument(DocumentParams{
		FullMessage: message,
		Timestamp:   e.millis(),
		Level:       e.Level,
		Facility:    a.Facility,
		Fields:      fields,
		FieldTypes:  types,
	})
}

// timeFormat returns the compiled TimestampPattern, falling back to the
// default pattern if it does not compile.
func (a *Assembler) timeFormat() *timeFormat {
	pattern := a.TimestampPattern
	if pattern == "" {
		pattern = DefaultTimestampPattern
	}

	a.formatMu.Lock()
	defer a.formatMu.Unlock()

	if a.format != nil && a.formatPattern == pattern {
		return a.format
	}

	tf, err := compileTimeFormat(pattern)
	if err != nil {
		tf, _ = compileTimeFormat(DefaultTimestampPattern)
	}
	a.format = tf
	a.formatPattern = pattern
	return tf
}

func (a *Assembler) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *Assembler) stackFilters() []string {
	if a.StackFilters == nil {
		return DefaultStackFilters
	}
	return a.StackFilters
}

func (a *Assembler) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}
