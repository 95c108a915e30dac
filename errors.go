// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import "errors"

// Sentinel errors. Each carries the label reported as DeliveryEvent.ErrorType.
var (
	// ErrEncoding: the document could not be serialized or encoded.
	ErrEncoding = labeled("encoding_error", "encoding failed")

	// ErrBufferFull: the client buffer was at capacity.
	ErrBufferFull = labeled("buffer_full", "buffer full")

	// ErrBroker: the broker rejected the record or could not be reached.
	ErrBroker = labeled("broker_error", "broker error")

	// ErrTimeout: a blocking delivery ran out of time.
	ErrTimeout = labeled("timeout", "timeout")

	// ErrProducer: the Kafka client could not be created.
	ErrProducer = labeled("producer_error", "producer unavailable")

	// ErrValidation: configuration validation failed.
	ErrValidation = labeled("validation_error", "validation error")

	// ErrInvalidArgument: a required argument was nil.
	ErrInvalidArgument = labeled("invalid_argument", "invalid argument")

	// ErrNotStarted: the appender is not running.
	ErrNotStarted = labeled("not_started", "appender not started")
)

// metricError is a sentinel with a metrics label.
type metricError struct {
	metric  string
	message string
}

func labeled(metric, message string) *metricError {
	return &metricError{metric: metric, message: message}
}

func (e *metricError) Error() string { return e.message }

// Metric returns the metrics label.
func (e *metricError) Metric() string { return e.metric }

// Is matches sentinels by message so copies compare equal.
func (e *metricError) Is(target error) bool {
	t, ok := target.(*metricError)
	return ok && e.message == t.message
}

// errorType returns the label of the first sentinel found in err's tree,
// "unknown" when there is none and "" for a nil error.
func errorType(err error) string {
	if err == nil {
		return ""
	}

	var me *metricError
	if errors.As(err, &me) {
		return me.Metric()
	}
	return "unknown"
}
