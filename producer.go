// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

// Producer config keys understood by DefaultProducerFactory.
const (
	ConfigBootstrapServers      = "bootstrap.servers"
	ConfigClientID              = "client.id"
	ConfigAcks                  = "acks"
	ConfigCompressionType       = "compression.type"
	ConfigLingerMs              = "linger.ms"
	ConfigRequestTimeoutMs      = "request.timeout.ms"
	ConfigRetries               = "retries"
	ConfigBufferMemory          = "buffer.memory"
	ConfigMaxBufferedRecords    = "max.buffered.records"
	ConfigAllowAutoCreateTopics = "allow.auto.create.topics"
	ConfigSASLMechanism         = "sasl.mechanism"
	ConfigSASLUsername          = "sasl.username"
	ConfigSASLPassword          = "sasl.password"
	ConfigKeySerializer         = "key.serializer"
	ConfigValueSerializer       = "value.serializer"
)

// SerializerBytes is the only supported key and value serializer; records
// always carry raw bytes.
const SerializerBytes = "bytes"

// Producer is the subset of *kgo.Client used to deliver records. It allows
// the client to be mocked in tests.
type Producer interface {
	// TryProduce attempts to produce a record without blocking if the buffer is full.
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))

	// Produce produces a record asynchronously, blocking if the buffer is full.
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))

	// ProduceSync produces records synchronously and waits for broker acknowledgment.
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults

	// Flush flushes all buffered records and waits for them to be sent.
	Flush(ctx context.Context) error

	// Close closes the client and releases resources.
	Close()

	// BufferedProduceRecords returns the current number of buffered records.
	BufferedProduceRecords() int64

	// BufferedProduceBytes returns the current number of buffered bytes.
	BufferedProduceBytes() int64
}

// Verify that *kgo.Client implements Producer at compile time.
var _ Producer = (*kgo.Client)(nil)

// ProducerFactory creates a Producer from producer config entries. opts are
// applied after the options derived from config.
type ProducerFactory func(config map[string]string, opts ...kgo.Opt) (Producer, error)

// DefaultProducerFactory creates a franz-go client.
func DefaultProducerFactory(config map[string]string, opts ...kgo.Opt) (Producer, error) {
	cfgOpts, err := ProducerOpts(config)
	if err != nil {
		return nil, errors.Join(ErrProducer, err)
	}

	client, err := kgo.NewClient(append(cfgOpts, opts...)...)
	if err != nil {
		return nil, errors.Join(ErrProducer, fmt.Errorf("failed to create Kafka client"), err)
	}

	return client, nil
}

// ProducerOpts converts producer config entries to franz-go client options.
// Unknown keys are ignored.
func ProducerOpts(config map[string]string) ([]kgo.Opt, error) {
	servers := splitList(config[ConfigBootstrapServers])
	if len(servers) == 0 {
		return nil, errors.Join(ErrValidation, fmt.Errorf("%s is required", ConfigBootstrapServers))
	}

	for _, key := range []string{ConfigKeySerializer, ConfigValueSerializer} {
		if v, ok := config[key]; ok && v != SerializerBytes {
			return nil, errors.Join(ErrValidation,
				fmt.Errorf("%s '%s' is invalid: must be '%s'", key, v, SerializerBytes))
		}
	}

	clientID := config[ConfigClientID]
	if clientID == "" {
		clientID = newClientID()
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(servers...),
		kgo.ClientID(clientID),
	}

	var errs []error

	if v, ok := config[ConfigAcks]; ok {
		acks, err := parseAcks(v)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts = append(opts, acks.opts()...)
		}
	}

	if v, ok := config[ConfigCompressionType]; ok {
		opt, err := parseCompression(v)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts = append(opts, opt)
		}
	}

	if n, ok, err := configInt(config, ConfigLingerMs); err != nil {
		errs = append(errs, err)
	} else if ok && n > 0 {
		opts = append(opts, kgo.ProducerLinger(time.Duration(n)*time.Millisecond))
	}

	if n, ok, err := configInt(config, ConfigRequestTimeoutMs); err != nil {
		errs = append(errs, err)
	} else if ok && n > 0 {
		opts = append(opts, kgo.RequestTimeoutOverhead(time.Duration(n)*time.Millisecond))
	}

	// <=0 = no retries (fail fast), N = retry N times
	if n, ok, err := configInt(config, ConfigRetries); err != nil {
		errs = append(errs, err)
	} else if ok && n > 0 {
		opts = append(opts, kgo.RecordRetries(n))
	}

	if n, ok, err := configInt(config, ConfigBufferMemory); err != nil {
		errs = append(errs, err)
	} else if ok && n > 0 {
		opts = append(opts, kgo.MaxBufferedBytes(n))
	}

	if n, ok, err := configInt(config, ConfigMaxBufferedRecords); err != nil {
		errs = append(errs, err)
	} else if ok && n > 0 {
		opts = append(opts, kgo.MaxBufferedRecords(n))
	}

	if strings.EqualFold(config[ConfigAllowAutoCreateTopics], "true") {
		opts = append(opts, kgo.AllowAutoTopicCreation())
	}

	if mech, ok := config[ConfigSASLMechanism]; ok {
		if !strings.EqualFold(mech, "PLAIN") {
			errs = append(errs, errors.Join(ErrValidation,
				fmt.Errorf("%s '%s' is invalid: must be 'PLAIN'", ConfigSASLMechanism, mech)))
		} else {
			auth := plain.Auth{
				User: config[ConfigSASLUsername],
				Pass: config[ConfigSASLPassword],
			}
			opts = append(opts, kgo.SASL(auth.AsMechanism()))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return opts, nil
}

func configInt(config map[string]string, key string) (int, bool, error) {
	v, ok := config[key]
	if !ok {
		return 0, false, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false, errors.Join(ErrValidation, fmt.Errorf("%s '%s' is not an integer", key, v))
	}
	return n, true, nil
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func newClientID() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	return "logkafka-" + strings.ToLower(id.String())
}
