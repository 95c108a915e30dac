// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts delivery events for Prometheus. Register Metrics.Listener
// with Appender.AddDeliveryEventListener or InitialDeliveryEventListeners.
type Metrics struct {
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// already registered by an earlier call are reused. A nil reg uses
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "logkafka",
			Name:      "events_total",
			Help:      "Number of appended log events by topic, outcome and error type.",
		},
		[]string{"topic", "outcome", "error_type"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "logkafka",
			Name:      "append_duration_seconds",
			Help:      "Time from Append to the delivery event.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"topic", "outcome"},
	)

	var err error
	if events, err = register(reg, events); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Metrics{events: events, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Listener records e.
func (m *Metrics) Listener(e *DeliveryEvent) {
	outcome := e.Outcome.String()

	m.events.WithLabelValues(e.Topic, outcome, e.ErrorType).Inc()
	m.duration.WithLabelValues(e.Topic, outcome).Observe(e.Duration.Seconds())
}
