// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"math"
	"strconv"
	"strings"
)

// Field type names understood by Document serialization.
const (
	// FieldTypeDiscover tries an integer, then a float, then keeps the string.
	FieldTypeDiscover = "discover"

	// FieldTypeString keeps the value as is.
	FieldTypeString = "String"

	// FieldTypeLong is an integer; zero if the value cannot be converted.
	FieldTypeLong = "long"

	// FieldTypeLongOrAbsent is an integer; the field is omitted if the value
	// cannot be converted.
	FieldTypeLongOrAbsent = "Long"

	// FieldTypeDouble is a float; zero if the value cannot be converted.
	FieldTypeDouble = "double"

	// FieldTypeDoubleOrAbsent is a float; the field is omitted if the value
	// cannot be converted.
	FieldTypeDoubleOrAbsent = "Double"

	// FieldTypeDefault is used for fields without a declared type.
	FieldTypeDefault = FieldTypeDiscover
)

// coerce converts value according to fieldType. The second return value is
// false when the field must not be emitted.
//
// Conversion never fails loudly: unparsable numbers fall back to a string,
// a zero or an absent field depending on the type.
func coerce(value, fieldType string) (any, bool) {
	switch {
	case strings.EqualFold(fieldType, FieldTypeDiscover):
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i, true
		}
		if f, ok := parseFloat(value); ok {
			return f, true
		}
		return value, true

	case strings.EqualFold(fieldType, FieldTypeString):
		return value, true

	case strings.EqualFold(fieldType, FieldTypeDouble):
		if f, ok := parseFloat(value); ok {
			return f, true
		}
		if fieldType == FieldTypeDouble {
			return float64(0), true
		}
		return nil, false

	case strings.EqualFold(fieldType, FieldTypeLong):
		if f, ok := parseFloat(value); ok {
			return truncate(f), true
		}
		if fieldType == FieldTypeLong {
			return int64(0), true
		}
		return nil, false
	}

	return nil, false
}

// parseFloat parses a finite float, tolerating surrounding whitespace.
func parseFloat(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// truncate converts f to an integer toward zero, saturating at the int64 range.
func truncate(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
