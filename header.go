// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
)

// headerRefPrefix marks a header value as a reference to an Event attribute.
const headerRefPrefix = "event."

// buildHeaders builds the Kafka record headers for e. Each configured value is
// either a literal or an "event.*" reference; a reference resolving to
// several values (event.Args) yields one header per value and references
// resolving to nothing or to empty strings are skipped. Keys are emitted in
// sorted order.
func buildHeaders(config map[string][]string, e *Event) []kgo.RecordHeader {
	if len(config) == 0 {
		return nil
	}

	headers := make([]kgo.RecordHeader, 0, len(config))

	for _, key := range slices.Sorted(maps.Keys(config)) {
		for _, value := range config[key] {
			ref, ok := strings.CutPrefix(value, headerRefPrefix)
			if !ok {
				headers = append(headers, kgo.RecordHeader{Key: key, Value: []byte(value)})
				continue
			}

			for _, v := range extractEventField(e, ref) {
				if v != "" {
					headers = append(headers, kgo.RecordHeader{Key: key, Value: []byte(v)})
				}
			}
		}
	}

	return headers
}

// extractEventField returns the values of the named Event attribute.
//
// Supported names:
//   - "Level", "LoggerName", "ThreadName", "Marker", "NDC", "Message"
//   - "Host": the local host name
//   - "SourceFile", "SourceFunction": empty without a source location
//   - "Args": one value per message argument
//   - "Context.key": the context entry for key, nil when absent or empty
//
// Returns nil for unknown names.
func extractEventField(e *Event, name string) []string {
	if e == nil {
		return nil
	}

	if got, ok := extractStandardField(e, name); ok {
		return got
	}

	if key, ok := strings.CutPrefix(name, "Context."); ok {
		if v := e.Context[strings.TrimSpace(key)]; v != "" {
			return []string{v}
		}
		return nil
	}

	return nil
}

func extractStandardField(e *Event, name string) ([]string, bool) {
	switch name {
	case "Level":
		return []string{e.Level}, true
	case "LoggerName":
		return []string{e.LoggerName}, true
	case "ThreadName":
		return []string{e.ThreadName}, true
	case "Marker":
		return []string{e.Marker}, true
	case "NDC":
		return []string{e.NDC}, true
	case "Message":
		return []string{e.Message}, true
	case "Host":
		return []string{hostname()}, true
	case "SourceFile":
		if e.Source == nil {
			return nil, true
		}
		return []string{e.Source.File}, true
	case "SourceFunction":
		if e.Source == nil {
			return nil, true
		}
		return []string{e.Source.Function}, true
	case "Args":
		out := make([]string, 0, len(e.Args))
		for _, arg := range e.Args {
			out = append(out, fmt.Sprint(arg))
		}
		return out, true
	}

	return nil, false
}

// validEventFieldNames are the attribute names accepted by header references.
var validEventFieldNames = map[string]struct{}{
	"Level":          {},
	"LoggerName":     {},
	"ThreadName":     {},
	"Marker":         {},
	"NDC":            {},
	"Message":        {},
	"Host":           {},
	"SourceFile":     {},
	"SourceFunction": {},
	"Args":           {},
}

// isValidEventFieldReference reports whether value is a literal or a known
// "event.*" reference.
func isValidEventFieldReference(value string) bool {
	ref, ok := strings.CutPrefix(value, headerRefPrefix)
	if !ok {
		return true
	}

	if key, ok := strings.CutPrefix(ref, "Context."); ok {
		return strings.TrimSpace(key) != ""
	}

	_, ok = validEventFieldNames[ref]
	return ok
}

// validateHeaders checks the header configuration of an Appender.
func validateHeaders(config map[string][]string) error {
	for key, values := range config {
		if key == "" {
			return errors.Join(ErrValidation, fmt.Errorf("header key must not be empty"))
		}
		if len(values) == 0 {
			return errors.Join(ErrValidation, fmt.Errorf("header %q must have at least one value", key))
		}
		for _, value := range values {
			if !isValidEventFieldReference(value) {
				return errors.Join(ErrValidation, fmt.Errorf("header %q has invalid event field reference %q", key, value))
			}
		}
	}
	return nil
}
