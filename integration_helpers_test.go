// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

//go:build integration

package logkafka_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitdabbler/backoff"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/xmidt-org/logkafka"
)

const (
	messageConsumeWait = 10 * time.Second
)

// setupKafka starts a single-node Kafka and returns its broker address. The
// container is terminated when the test ends.
func setupKafka(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// testcontainers validates the image version for KRaft mode.
	container, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.8.0",
		kafka.WithClusterID("logkafka"),
	)
	require.NoError(t, err, "Failed to start Kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate Kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	require.NoError(t, waitForKafka(t, brokers[0]))
	return brokers[0]
}

// waitForKafka pings the broker with backoff until it answers or 30s pass.
func waitForKafka(t *testing.T, broker string) error {
	t.Helper()

	client, err := kgo.NewClient(kgo.SeedBrokers(broker))
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bo, err := backoff.New(
		backoff.WithInitialDelay(100*time.Millisecond),
		backoff.WithExponentialLimit(2*time.Second),
	)
	if err != nil {
		return err
	}

	for {
		err = client.Ping(ctx)
		if err == nil || ctx.Err() != nil {
			return err
		}
		t.Logf("Kafka not ready yet: %v", err)
		bo.Sleep()
	}
}

// createTestAppender creates an Appender writing JSON text to topic.
func createTestAppender(t *testing.T, broker, topic string) *logkafka.Appender {
	t.Helper()

	return &logkafka.Appender{
		Topic: topic,
		ProducerConfig: map[string]string{
			logkafka.ConfigBootstrapServers:      broker,
			logkafka.ConfigAllowAutoCreateTopics: "true",
		},
		Encoder:        logkafka.StringEncoder{},
		CleanupTimeout: 10 * time.Second,
	}
}

// consumeMessages reads topic from the start until want records arrived or
// timeout expired, and returns what it got.
func consumeMessages(t *testing.T, broker, topic string, want int, timeout time.Duration) []*kgo.Record {
	t.Helper()

	client, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err, "Failed to create Kafka consumer")
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var records []*kgo.Record
	for len(records) < want && ctx.Err() == nil {
		fetches := client.PollFetches(ctx)
		fetches.EachError(func(topic string, partition int32, err error) {
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Logf("Fetch error on %s[%d]: %v", topic, partition, err)
			}
		})
		records = append(records, fetches.Records()...)
	}

	return records
}

// decodeDocument decodes a JSON document from a Kafka record.
func decodeDocument(t *testing.T, record *kgo.Record) map[string]any {
	t.Helper()

	var doc map[string]any
	require.NoError(t, sonic.Unmarshal(record.Value, &doc), "Failed to decode document")
	return doc
}
