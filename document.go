// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Fixed document keys.
const (
	FieldShortMessage = "short_message"
	FieldFullMessage  = "full_message"
	FieldTimestamp    = "timestamp"
	FieldLevel        = "level"
	FieldFacility     = "facility"

	// reservedID is never emitted as an additional field.
	reservedID = "id"
)

// DefaultFacility is the facility of documents whose assembler has none
// configured.
const DefaultFacility = "<override-this>"

var jsonAPI = sonic.ConfigStd

// DocumentParams holds everything needed to build a Document.
type DocumentParams struct {
	ShortMessage string
	FullMessage  string

	// Timestamp is the event time in epoch milliseconds; 0 means none.
	Timestamp int64

	Level string

	// Facility defaults to DefaultFacility when empty.
	Facility string

	// Fields are the additional fields, keyed by name.
	Fields map[string]string

	// FieldTypes declares the type of additional fields, keyed by name.
	// Fields without a declared type use FieldTypeDefault.
	FieldTypes map[string]string
}

// Document is an assembled log message ready for serialization.
//
// A Document is built once by NewDocument and is not safe for concurrent
// mutation.
type Document struct {
	shortMessage string
	fullMessage  string
	timestamp    int64
	level        string
	facility     string
	fields       map[string]string
	fieldTypes   map[string]string
}

// NewDocument builds a Document from p. The maps in p are copied.
func NewDocument(p DocumentParams) *Document {
	d := &Document{
		shortMessage: p.ShortMessage,
		fullMessage:  p.FullMessage,
		timestamp:    p.Timestamp,
		level:        p.Level,
		facility:     p.Facility,
		fields:       make(map[string]string, len(p.Fields)),
		fieldTypes:   make(map[string]string, len(p.FieldTypes)),
	}
	if d.facility == "" {
		d.facility = DefaultFacility
	}
	maps.Copy(d.fields, p.Fields)
	maps.Copy(d.fieldTypes, p.FieldTypes)
	return d
}

func (d *Document) ShortMessage() string { return d.shortMessage }
func (d *Document) FullMessage() string  { return d.fullMessage }
func (d *Document) Timestamp() int64     { return d.timestamp }
func (d *Document) Level() string        { return d.level }
func (d *Document) Facility() string     { return d.facility }

// AddField sets an additional field, replacing any previous value.
func (d *Document) AddField(name, value string) {
	d.fields[name] = value
}

// AddFields sets every entry of fields as an additional field. A nil map is
// rejected with ErrInvalidArgument.
func (d *Document) AddFields(fields map[string]string) error {
	if fields == nil {
		return errors.Join(ErrInvalidArgument, fmt.Errorf("fields is nil"))
	}
	maps.Copy(d.fields, fields)
	return nil
}

// Field returns the raw value of an additional field.
func (d *Document) Field(name string) (string, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// Fields returns a copy of the additional fields.
func (d *Document) Fields() map[string]string {
	return maps.Clone(d.fields)
}

// Valid reports whether the document carries a short or a full message.
func (d *Document) Valid() bool {
	return !isBlank(d.shortMessage) || !isBlank(d.fullMessage)
}

// TimestampString renders the timestamp as seconds with a three digit
// millisecond fraction, e.g. 1700000000123 → "1700000000.123".
func (d *Document) TimestampString() string {
	ms := d.timestamp
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	return fmt.Sprintf("%s%d.%03d", sign, ms/1000, ms%1000)
}

// Serialize renders the document as a flat JSON object. Additional field
// names are prefixed with prefix; the reserved "id" field is never written.
//
// Fixed fields are omitted when blank and the timestamp when zero. Additional
// field values are converted according to their declared type, and fields
// whose converted value is absent are omitted.
func (d *Document) Serialize(prefix string) (string, error) {
	out := make(map[string]any, len(d.fields)+5)

	if !isBlank(d.shortMessage) {
		out[FieldShortMessage] = d.shortMessage
	}
	if !isBlank(d.fullMessage) {
		out[FieldFullMessage] = d.fullMessage
	}
	if d.timestamp != 0 {
		out[FieldTimestamp] = d.TimestampString()
	}
	if !isBlank(d.level) {
		out[FieldLevel] = d.level
	}
	if !isBlank(d.facility) {
		out[FieldFacility] = d.facility
	}

	for name, value := range d.fields {
		if name == reservedID {
			continue
		}

		fieldType, ok := d.fieldTypes[name]
		if !ok {
			fieldType = FieldTypeDefault
		}

		if v, ok := coerce(value, fieldType); ok {
			out[prefix+name] = v
		}
	}

	b, err := jsonAPI.Marshal(out)
	if err != nil {
		return "", errors.Join(ErrEncoding, err)
	}
	return string(b), nil
}

// String implements fmt.Stringer for debugging.
func (d *Document) String() string {
	return "Document [level=" + d.level +
		", timestamp=" + strconv.FormatInt(d.timestamp, 10) +
		", fields=" + strconv.Itoa(len(d.fields)) + "]"
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
