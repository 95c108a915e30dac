// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

//go:build integration

package logkafka_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/xmidt-org/logkafka"
)

// outcomeCollector gathers delivery events from listeners.
type outcomeCollector struct {
	mu     sync.Mutex
	events []logkafka.DeliveryEvent
}

func (c *outcomeCollector) listen(e *logkafka.DeliveryEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, *e)
}

func (c *outcomeCollector) count(o logkafka.Outcome) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.events {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

// TestIntegration_BasicAppend tests that an appended event arrives as a JSON
// document.
func TestIntegration_BasicAppend(t *testing.T) {
	t.Parallel()
	broker := setupKafka(t)

	app := createTestAppender(t, broker, "app-logs")
	app.Assembler = logkafka.NewAssembler()
	app.Assembler.Facility = "billing"
	app.Assembler.AddField(logkafka.StaticFieldOf("env", "test"))

	var outcomes outcomeCollector
	app.AddDeliveryEventListener(outcomes.listen)

	app.Start()
	require.True(t, app.IsStarted())

	app.Append(&logkafka.Event{
		Time:       time.UnixMilli(1700000000123),
		Level:      "INFO",
		LoggerName: "billing.invoice",
		Message:    "invoice sent",
	})
	app.Stop(context.Background())

	assert.Equal(t, 1, outcomes.count(logkafka.Queued))
	assert.Zero(t, outcomes.count(logkafka.Failed))

	records := consumeMessages(t, broker, "app-logs", 1, messageConsumeWait)
	require.Len(t, records, 1, "Expected exactly 1 message in Kafka")

	doc := decodeDocument(t, records[0])
	assert.Equal(t, "invoice sent", doc[logkafka.FieldFullMessage])
	assert.Equal(t, "INFO", doc[logkafka.FieldLevel])
	assert.Equal(t, "billing", doc[logkafka.FieldFacility])
	assert.Equal(t, "1700000000.123", doc[logkafka.FieldTimestamp])
	assert.Equal(t, "test", doc["env"])
	assert.Nil(t, records[0].Key)
}

// TestIntegration_DeliveryStrategies tests the outcome of each strategy.
func TestIntegration_DeliveryStrategies(t *testing.T) {
	t.Parallel()
	broker := setupKafka(t)

	tests := []struct {
		name     string
		topic    string
		strategy logkafka.DeliveryStrategy
		outcome  logkafka.Outcome
	}{
		{"fire and forget", "strategy-fire", logkafka.FireAndForgetDelivery{}, logkafka.Attempted},
		{"async", "strategy-async", logkafka.AsyncDelivery{}, logkafka.Queued},
		{"blocking", "strategy-blocking", logkafka.BlockingDelivery{Timeout: 30 * time.Second, MaxAttempts: 3}, logkafka.Accepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := createTestAppender(t, broker, tt.topic)
			app.DeliveryStrategy = tt.strategy

			var outcomes outcomeCollector
			app.AddDeliveryEventListener(outcomes.listen)

			app.Start()
			for i := range 3 {
				app.Append(&logkafka.Event{Level: "INFO", Message: fmt.Sprintf("message %d", i)})
			}
			app.Stop(context.Background())

			assert.Equal(t, 3, outcomes.count(tt.outcome))

			records := consumeMessages(t, broker, tt.topic, 3, messageConsumeWait)
			assert.Len(t, records, 3)
		})
	}
}

// TestIntegration_Keying tests that keyed events of one logger share a key.
func TestIntegration_Keying(t *testing.T) {
	t.Parallel()
	broker := setupKafka(t)

	app := createTestAppender(t, broker, "keyed-logs")
	app.KeyingStrategy = logkafka.LoggerNameKey{}
	app.Start()

	for _, logger := range []string{"a", "b", "a"} {
		app.Append(&logkafka.Event{LoggerName: logger, Message: "m"})
	}
	app.Stop(context.Background())

	records := consumeMessages(t, broker, "keyed-logs", 3, messageConsumeWait)
	require.Len(t, records, 3)

	keys := map[string]int32{}
	for _, r := range records {
		require.Len(t, r.Key, 4)
		if p, ok := keys[string(r.Key)]; ok {
			assert.Equal(t, p, r.Partition, "same key must land on the same partition")
		}
		keys[string(r.Key)] = r.Partition
	}
	assert.Len(t, keys, 2)
}

// TestIntegration_MsgpackEncoder tests the msgpack record values.
func TestIntegration_MsgpackEncoder(t *testing.T) {
	t.Parallel()
	broker := setupKafka(t)

	app := createTestAppender(t, broker, "msgpack-logs")
	app.Encoder = logkafka.MsgpackEncoder{}
	app.Assembler = logkafka.NewAssembler()
	app.Assembler.AddField(logkafka.StaticFieldOf("attempt", "3"))
	app.Assembler.SetFieldType("attempt", logkafka.FieldTypeLong)
	app.Start()

	app.Append(&logkafka.Event{Level: "WARN", Message: "retrying"})
	app.Stop(context.Background())

	records := consumeMessages(t, broker, "msgpack-logs", 1, messageConsumeWait)
	require.Len(t, records, 1)

	var doc map[string]any
	require.NoError(t, msgpack.Unmarshal(records[0].Value, &doc))
	assert.Equal(t, "retrying", doc[logkafka.FieldFullMessage])
	assert.EqualValues(t, 3, doc["attempt"])
}

// TestIntegration_SlogHandler tests logging through slog into Kafka.
func TestIntegration_SlogHandler(t *testing.T) {
	t.Parallel()
	broker := setupKafka(t)

	app := createTestAppender(t, broker, "slog-logs")
	app.Assembler = logkafka.NewAssembler()
	app.Assembler.IncludeFullMDC = true
	app.Assembler.ExtractStackTrace = true
	app.ClientLogger = logkafka.NewClientLogger(app, kgo.LogLevelInfo)
	app.Start()

	logger := slog.New(logkafka.NewHandler(app, &logkafka.HandlerOptions{LoggerName: "orders"}))
	logger.Error("payment failed", "order", "o-1", "error", errors.New("card declined"))
	app.Stop(context.Background())

	records := consumeMessages(t, broker, "slog-logs", 1, messageConsumeWait)
	require.NotEmpty(t, records)

	var found bool
	for _, r := range records {
		doc := decodeDocument(t, r)
		if doc[logkafka.FieldFullMessage] != "payment failed" {
			continue
		}
		found = true
		assert.Equal(t, "ERROR", doc[logkafka.FieldLevel])
		assert.Equal(t, "o-1", doc["order"])
		assert.Equal(t, "card declined", doc[logkafka.FieldStackTrace])
	}
	assert.True(t, found, "slog record not found in Kafka")
}

// TestIntegration_UnreachableBroker tests that undeliverable events reach the
// fallback sinks.
func TestIntegration_UnreachableBroker(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	app := createTestAppender(t, "127.0.0.1:1", "nowhere")
	app.ProducerConfig[logkafka.ConfigRequestTimeoutMs] = "500"
	app.DeliveryStrategy = logkafka.BlockingDelivery{Timeout: 2 * time.Second, MaxAttempts: 2}

	var mu sync.Mutex
	var failed []*logkafka.Event
	app.AddFallback(logkafka.SinkFunc(func(e *logkafka.Event) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, e)
	}))

	var outcomes outcomeCollector
	app.AddDeliveryEventListener(outcomes.listen)

	app.Start()
	e := &logkafka.Event{Message: "lost"}
	app.Append(e)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	app.Stop(ctx)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, failed, 1)
	assert.Same(t, e, failed[0])
	assert.Equal(t, 1, outcomes.count(logkafka.Failed))
}
