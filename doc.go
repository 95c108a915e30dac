// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package logkafka turns structured log events into JSON documents and
// publishes them to Apache Kafka.
//
// # Overview
//
// An Appender receives Events, has an Assembler build a Document for each one,
// serializes and encodes the document and hands the resulting record to a
// DeliveryStrategy. Events that cannot be delivered go to fallback sinks. The
// Kafka client is created on the first Append, and log events emitted by the
// client itself are deferred so the client is never re-entered while it logs.
//
// # Quick Start
//
// Create an Appender by setting fields directly:
//
//	appender := &logkafka.Appender{
//	    Topic: "app-logs",
//	    ProducerConfig: map[string]string{
//	        logkafka.ConfigBootstrapServers: "localhost:9092",
//	    },
//	    Encoder: logkafka.StringEncoder{},
//	}
//	appender.AddFallback(logkafka.SlogSink{})
//
//	appender.Start()
//	defer appender.Stop(context.Background())
//
//	logger := slog.New(logkafka.NewHandler(appender, nil))
//	logger.Info("invoice sent", "logger", "billing", "invoice", "inv-42")
//
// # Documents
//
// A Document has five fixed fields (short_message, full_message, timestamp,
// level, facility) and any number of additional fields. The Assembler fills
// the additional fields from its Field descriptors:
//
//   - StaticFieldOf: a constant value
//   - LogFieldOf: an attribute of the event, see NamedField
//   - ContextFieldOf: one entry of the event context
//   - DynamicContextFieldOf: every context entry matching a Pattern
//
// followed by the stack trace, the message arguments, request profiling and
// the full context, depending on its flags. Assembler.Initialize reads the
// same settings from a PropertySource. Additional fields are typed with
// SetFieldType; values that do not parse as their type are dropped from the
// serialized document.
//
// # Delivery
//
// The DeliveryStrategy decides how long Append waits for Kafka:
//
//   - FireAndForgetDelivery never blocks and fails with ErrBufferFull when the
//     client buffer is full. Outcome: Attempted.
//
//   - AsyncDelivery waits only for buffer space; the client retries and
//     reports the final result from its own goroutine. Outcome: Queued.
//
//   - BlockingDelivery waits for the broker and retries with exponential
//     backoff. Outcome: Accepted or Failed.
//
// Records are keyed by a KeyingStrategy and may carry headers built from
// literals or "event.*" references (see Appender.Headers).
//
// # Observability
//
// Diagnostics go through franz-go's kgo.Logger interface; SlogLogger adapts a
// *slog.Logger. Every appended event produces a DeliveryEvent:
//
//	metrics, _ := logkafka.NewMetrics(prometheus.DefaultRegisterer)
//	appender.AddDeliveryEventListener(metrics.Listener)
//
// # Thread Safety
//
// Append, AddFallback and AddDeliveryEventListener are safe for concurrent use.
// Start and Stop are serialized with each other. Fallback sinks and listeners
// may be called from Kafka client goroutines and must be thread-safe.
package logkafka
