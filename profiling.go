// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"strconv"
	"strings"
	"time"
)

// Context keys used by request profiling.
const (
	ProfilingRequestStart          = "profiling.requestStart.millis"
	ProfilingRequestEnd            = "profiling.requestEnd"
	ProfilingRequestDuration       = "profiling.requestDuration"
	ProfilingRequestDurationMillis = "profiling.requestDuration.millis"
)

// requestEndFormat renders the request end like a classic Unix date.
var requestEndFormat, _ = compileTimeFormat("EEE MMM dd HH:mm:ss z yyyy")

// profilingFields derives the request duration fields from the request start
// stored in the event context. Nothing is returned when the start is missing,
// unparsable or not positive.
func profilingFields(e *Event, now time.Time, loc *time.Location) []FieldValue {
	raw := strings.TrimSpace(e.Context[ProfilingRequestStart])
	if raw == "" {
		return nil
	}

	start, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || start <= 0 {
		return nil
	}

	end := now.UnixMilli()
	duration := end - start

	text := strconv.FormatInt(duration, 10) + "ms"
	if duration > 10000 {
		text = strconv.FormatInt(duration/1000, 10) + "sec"
	}

	return []FieldValue{
		{Name: ProfilingRequestDuration, Value: text},
		{Name: ProfilingRequestDurationMillis, Value: strconv.FormatInt(duration, 10)},
		{Name: ProfilingRequestEnd, Value: requestEndFormat.format(now.In(loc))},
	}
}
