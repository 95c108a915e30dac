// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xmidt-org/logkafka"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of the command.
type Config struct {
	// Topic is the Kafka topic events are sent to.
	Topic string `yaml:"topic"`

	// Producer holds the producer config entries, e.g. bootstrap.servers.
	Producer map[string]string `yaml:"producer"`

	// Properties configure the assembler; see the logkafka.Property* keys.
	Properties map[string]string `yaml:"properties"`

	// Headers are the Kafka record headers.
	Headers map[string][]string `yaml:"headers"`

	Delivery DeliveryConfig `yaml:"delivery"`

	// Keying is one of none, host, logger, thread or context:<key>.
	Keying string `yaml:"keying"`

	// Encoder is string or msgpack.
	Encoder string `yaml:"encoder"`

	// FieldPrefix is prepended to additional field names.
	FieldPrefix string `yaml:"fieldPrefix"`

	// CleanupTimeout bounds the final flush.
	CleanupTimeout time.Duration `yaml:"cleanupTimeout"`
}

// DeliveryConfig selects the delivery strategy.
type DeliveryConfig struct {
	// Mode is async, fire-and-forget or blocking.
	Mode        string        `yaml:"mode"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"maxAttempts"`
	MaxBackoff  time.Duration `yaml:"maxBackoff"`
}

func defaultConfig() Config {
	return Config{
		Topic: "logs",
		Producer: map[string]string{
			logkafka.ConfigBootstrapServers: "localhost:9092",
		},
		Delivery: DeliveryConfig{
			Mode: "async",
		},
		Keying:         "none",
		Encoder:        "string",
		CleanupTimeout: 10 * time.Second,
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return config, nil
}

// appender builds an Appender from the configuration. The appender is not
// started.
func (c Config) appender() (*logkafka.Appender, error) {
	var errs []error

	delivery, err := c.Delivery.strategy()
	errs = append(errs, err)

	keying, err := keyingStrategy(c.Keying)
	errs = append(errs, err)

	encoder, err := encoder(c.Encoder)
	errs = append(errs, err)

	assembler := logkafka.NewAssembler()
	errs = append(errs, assembler.Initialize(logkafka.Properties(c.Properties)))

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &logkafka.Appender{
		Topic:            c.Topic,
		ProducerConfig:   c.Producer,
		Headers:          c.Headers,
		Encoder:          encoder,
		KeyingStrategy:   keying,
		DeliveryStrategy: delivery,
		Assembler:        assembler,
		FieldPrefix:      c.FieldPrefix,
		CleanupTimeout:   c.CleanupTimeout,
	}, nil
}

func (d DeliveryConfig) strategy() (logkafka.DeliveryStrategy, error) {
	switch strings.ToLower(d.Mode) {
	case "", "async":
		return logkafka.AsyncDelivery{}, nil
	case "fire-and-forget":
		return logkafka.FireAndForgetDelivery{}, nil
	case "blocking":
		return logkafka.BlockingDelivery{
			Timeout:     d.Timeout,
			MaxAttempts: d.MaxAttempts,
			MaxBackoff:  d.MaxBackoff,
		}, nil
	}
	return nil, fmt.Errorf("unknown delivery mode %q", d.Mode)
}

func keyingStrategy(name string) (logkafka.KeyingStrategy, error) {
	if key, ok := strings.CutPrefix(name, "context:"); ok {
		if key == "" {
			return nil, errors.New("keying context: requires a key")
		}
		return logkafka.ContextKey{Key: key}, nil
	}

	switch strings.ToLower(name) {
	case "", "none":
		return logkafka.NoKey{}, nil
	case "host":
		return logkafka.HostNameKey{}, nil
	case "logger":
		return logkafka.LoggerNameKey{}, nil
	case "thread":
		return logkafka.ThreadNameKey{}, nil
	}
	return nil, fmt.Errorf("unknown keying strategy %q", name)
}

func encoder(name string) (logkafka.Encoder, error) {
	switch strings.ToLower(name) {
	case "", "string":
		return logkafka.StringEncoder{}, nil
	case "msgpack":
		return logkafka.MsgpackEncoder{}, nil
	}
	return nil, fmt.Errorf("unknown encoder %q", name)
}
