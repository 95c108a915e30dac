// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

// Outcome represents what happened to an appended event.
type Outcome int

const (
	// Accepted indicates the record was delivered AND confirmed by Kafka.
	// Only reported by BlockingDelivery.
	Accepted Outcome = iota

	// Queued indicates the record was locally buffered but NOT confirmed with
	// the target Kafka broker. A failure is reported later through the
	// failure callback. Reported by AsyncDelivery.
	Queued

	// Attempted indicates the record was handed to the client without waiting
	// for buffer space. The result at the time of return is unknown and there
	// is no retry. Reported by FireAndForgetDelivery.
	Attempted

	// Deferred indicates the event came from the Kafka client's own logger and
	// was queued for a later Append.
	Deferred

	// Dropped indicates the event was discarded because the appender was not
	// running.
	Dropped

	// Failed indicates delivery failed and the event was handed to the
	// fallback sinks.
	Failed
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "Accepted"
	case Queued:
		return "Queued"
	case Attempted:
		return "Attempted"
	case Deferred:
		return "Deferred"
	case Dropped:
		return "Dropped"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}
