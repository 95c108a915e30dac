// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/xmidt-org/eventor"
)

// ClientLoggerPrefix is the logger name prefix of events produced by the
// Kafka client itself. Such events are deferred to the next Append so the
// client is never re-entered while it is logging.
const ClientLoggerPrefix = "github.com/twmb/franz-go"

// maxDroppedWarnings limits the warnings logged for events appended while the
// appender is stopped.
const maxDroppedWarnings = 3

// DeliveryEvent describes what happened to an appended event.
type DeliveryEvent struct {
	// Topic is the Kafka topic the record was (or would have been) sent to.
	Topic string

	// LoggerName is the logger name of the event.
	LoggerName string

	// Outcome is what happened to the event.
	Outcome Outcome

	// Error is the error that occurred (nil unless Outcome is Failed or Dropped).
	Error error

	// ErrorType is the error classification (empty without an error).
	// Values: "encoding_error", "buffer_full", "broker_error", "timeout", etc.
	ErrorType string

	// Duration is the time taken from Append to this event.
	Duration time.Duration
}

// appenderState is the lifecycle state of an Appender.
type appenderState int32

const (
	stateStopped appenderState = iota
	stateStarting
	stateRunning
)

// Appender publishes log events to a Kafka topic.
//
// Thread Safety: Append, AddFallback and AddDeliveryEventListener are safe
// for concurrent use. Start and Stop are serialized with each other and may
// be called while other goroutines append.
type Appender struct {
	// --- STATIC CONFIGURATION (set before Start, immutable after) ---

	// Topic is the Kafka topic every record is sent to.
	// Required.
	Topic string

	// ProducerConfig holds the producer config entries passed to the
	// producer factory; see the Config* constants.
	// Required: ConfigBootstrapServers.
	ProducerConfig map[string]string

	// TLS configures TLS encryption.
	// Optional. If nil, plaintext connections are used.
	TLS *tls.Config

	// Encoder turns the serialized document into the record value.
	// Required.
	Encoder Encoder

	// KeyingStrategy computes record keys.
	// Default: NoKey.
	KeyingStrategy KeyingStrategy

	// DeliveryStrategy sends records.
	// Default: AsyncDelivery.
	DeliveryStrategy DeliveryStrategy

	// Assembler builds documents from events.
	// Default: NewAssembler().
	Assembler *Assembler

	// FieldPrefix is prepended to every additional field name of the
	// serialized document.
	FieldPrefix string

	// Headers defines Kafka record headers.
	// Optional. Values are literals or "event.*" references, e.g.
	// "event.Level" or "event.Context.requestId".
	Headers map[string][]string

	// CleanupTimeout sets the maximum time to wait for buffered records
	// to flush on Stop when the Stop context has no deadline. Zero or
	// negative values mean no timeout.
	CleanupTimeout time.Duration

	// Logger receives the appender's own diagnostics.
	// Optional. If nil, a no-op logger will be used.
	//
	// The logger must not feed events back into this Appender.
	Logger kgo.Logger

	// ClientLogger is handed to the Kafka client.
	// Optional. If nil, the client does not log.
	//
	// Use NewClientLogger to route client logs into this Appender; such
	// events are deferred.
	ClientLogger kgo.Logger

	// InitialDeliveryEventListeners are registered when Start() is called.
	// For dynamic listener management use AddDeliveryEventListener().
	// Optional.
	InitialDeliveryEventListeners []func(*DeliveryEvent)

	// --- INTERNAL FIELDS (not for user configuration) ---

	// producerFactory is for internal use only (testing hook).
	producerFactory ProducerFactory

	// lifecycleMu serializes Start and Stop.
	lifecycleMu sync.Mutex

	state atomic.Int32

	// session holds everything Append needs while running; nil when stopped.
	session atomic.Pointer[session]

	deferred deferredQueue

	fallbackMu sync.RWMutex
	fallbacks  []Sink

	deliveryEventListeners eventor.Eventor[func(*DeliveryEvent)]

	registerInitialListenersOnce sync.Once

	droppedWarnings atomic.Int64
}

// session is the configuration snapshot taken by Start.
type session struct {
	topic     string
	prefix    string
	headers   map[string][]string
	encoder   Encoder
	keying    KeyingStrategy
	delivery  DeliveryStrategy
	assembler *Assembler
	producer  *lazyProducer
}

// AddDeliveryEventListener adds a listener called for every appended event.
// The returned function removes the listener.
//
// Listeners are called from appending goroutines and Kafka client goroutines
// and must be thread-safe.
func (a *Appender) AddDeliveryEventListener(fn func(*DeliveryEvent)) func() {
	return a.deliveryEventListeners.Add(fn)
}

// AddFallback attaches a sink that receives every event whose delivery
// failed. Sinks are called in the order they were attached.
func (a *Appender) AddFallback(s Sink) {
	if s == nil {
		return
	}

	a.fallbackMu.Lock()
	defer a.fallbackMu.Unlock()

	a.fallbacks = append(a.fallbacks, s)
}

// Fallbacks returns the attached fallback sinks in attachment order.
func (a *Appender) Fallbacks() []Sink {
	a.fallbackMu.RLock()
	defer a.fallbackMu.RUnlock()

	out := make([]Sink, len(a.fallbacks))
	copy(out, a.fallbacks)
	return out
}

// IsStarted reports whether the appender is running.
func (a *Appender) IsStarted() bool {
	return appenderState(a.state.Load()) == stateRunning
}

// Start validates the configuration and begins operation. The Kafka client
// is created on the first Append.
//
// Configuration problems are logged and leave the appender stopped; events
// appended to a stopped appender are dropped. Calling Start on a running
// appender does nothing.
func (a *Appender) Start() {
	a.lifecycleMu.Lock()
	defer a.lifecycleMu.Unlock()

	if appenderState(a.state.Load()) != stateStopped {
		return
	}
	a.state.Store(int32(stateStarting))

	logger := a.log()

	a.registerInitialListenersOnce.Do(func() {
		for _, listener := range a.InitialDeliveryEventListeners {
			a.deliveryEventListeners.Add(listener)
		}
	})

	if err := a.validate(); err != nil {
		logger.Log(kgo.LogLevelError, "appender not started: invalid configuration", "error", err.Error())
		a.state.Store(int32(stateStopped))
		return
	}

	s := &session{
		topic:     a.Topic,
		prefix:    a.FieldPrefix,
		headers:   maps.Clone(a.Headers),
		encoder:   a.Encoder,
		keying:    a.KeyingStrategy,
		delivery:  a.DeliveryStrategy,
		assembler: a.Assembler,
	}

	if s.keying == nil {
		logger.Log(kgo.LogLevelInfo, "no keying strategy set, using NoKey")
		s.keying = NoKey{}
	}
	if s.delivery == nil {
		logger.Log(kgo.LogLevelInfo, "no delivery strategy set, using AsyncDelivery")
		s.delivery = AsyncDelivery{}
	}
	if s.assembler == nil {
		logger.Log(kgo.LogLevelInfo, "no assembler set, using the default assembler")
		s.assembler = NewAssembler()
	}

	s.producer = newLazyProducer(a.createProducer)

	a.droppedWarnings.Store(0)
	a.session.Store(s)
	a.state.Store(int32(stateRunning))

	logger.Log(kgo.LogLevelInfo, "appender started", "topic", a.Topic)
}

// validate checks the settings Start cannot default.
func (a *Appender) validate() error {
	var errs []error

	if strings.TrimSpace(a.ProducerConfig[ConfigBootstrapServers]) == "" {
		errs = append(errs, fmt.Errorf("producer config '%s' is required", ConfigBootstrapServers))
	}
	if strings.TrimSpace(a.Topic) == "" {
		errs = append(errs, fmt.Errorf("topic is required"))
	}
	if a.Encoder == nil {
		errs = append(errs, fmt.Errorf("encoder is required"))
	}
	if err := validateHeaders(a.Headers); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrValidation}, errs...)...)
	}
	return nil
}

// createProducer builds the Kafka client. Keys and values are always raw
// bytes whatever the configured serializers.
func (a *Appender) createProducer() (Producer, error) {
	config := maps.Clone(a.ProducerConfig)
	if config == nil {
		config = make(map[string]string, 2)
	}
	config[ConfigKeySerializer] = SerializerBytes
	config[ConfigValueSerializer] = SerializerBytes

	opts := []kgo.Opt{
		kgo.DefaultProduceTopic(a.Topic),
	}
	if a.ClientLogger != nil {
		opts = append(opts, kgo.WithLogger(a.ClientLogger))
	}
	if a.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(a.TLS))
	}

	factory := a.producerFactory
	if factory == nil {
		factory = DefaultProducerFactory
	}

	p, err := factory(config, opts...)
	if err != nil {
		a.log().Log(kgo.LogLevelError, "error creating producer", "error", err.Error())
		return nil, errors.Join(ErrProducer, err)
	}

	a.log().Log(kgo.LogLevelInfo, "producer created", "topic", a.Topic)
	return p, nil
}

// Stop stops the appender, flushes buffered records and closes the Kafka
// client. Flush problems are logged as warnings. Safe to call multiple times.
func (a *Appender) Stop(ctx context.Context) {
	a.lifecycleMu.Lock()
	defer a.lifecycleMu.Unlock()

	if appenderState(a.state.Load()) != stateRunning {
		return
	}
	a.state.Store(int32(stateStopped))

	s := a.session.Swap(nil)
	if s == nil {
		return
	}

	logger := a.log()

	if n := a.deferred.len(); n > 0 {
		logger.Log(kgo.LogLevelWarn, "stopping with undelivered deferred events", "count", n)
	}

	p, ok := s.producer.close()
	if !ok {
		logger.Log(kgo.LogLevelInfo, "appender stopped")
		return
	}

	logger.Log(kgo.LogLevelInfo, "stopping appender, flushing buffered records")

	// Apply CleanupTimeout only if the context doesn't already have a deadline.
	if a.CleanupTimeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.CleanupTimeout)
			defer cancel()
		}
	}

	if err := p.Flush(ctx); err != nil {
		logger.Log(kgo.LogLevelWarn, "flush incomplete during shutdown", "error", err.Error())
	}

	p.Close()

	logger.Log(kgo.LogLevelInfo, "appender stopped")
}

// Append publishes e. It never returns delivery errors: failed events go to
// the fallback sinks and are reported to the delivery event listeners.
//
// Events queued by earlier calls are published first. Events logged by the
// Kafka client (see ClientLoggerPrefix) are only queued.
func (a *Appender) Append(e *Event) {
	if e == nil {
		return
	}

	a.drainDeferred()

	if strings.HasPrefix(e.LoggerName, ClientLoggerPrefix) {
		a.deferred.push(e)
		a.dispatchEvent(&DeliveryEvent{
			Topic:      a.Topic,
			LoggerName: e.LoggerName,
			Outcome:    Deferred,
		}, time.Now(), nil)
		return
	}

	a.append(e)
}

// drainDeferred publishes every queued event. Drained events are not
// classified again.
func (a *Appender) drainDeferred() {
	for e := a.deferred.poll(); e != nil; e = a.deferred.poll() {
		a.append(e)
	}
}

func (a *Appender) append(e *Event) {
	startTime := time.Now()

	s := a.session.Load()
	if s == nil {
		if a.droppedWarnings.Add(1) <= maxDroppedWarnings {
			a.log().Log(kgo.LogLevelWarn, "attempted to append to a stopped appender", "logger", e.LoggerName)
		}
		a.dispatchEvent(&DeliveryEvent{
			Topic:      a.Topic,
			LoggerName: e.LoggerName,
			Outcome:    Dropped,
		}, startTime, ErrNotStarted)
		return
	}

	base := DeliveryEvent{
		Topic:      s.topic,
		LoggerName: e.LoggerName,
	}

	onFailure := func(failed *Event, err error) {
		event := base
		a.fail(failed, &event, startTime, err)
	}

	record, err := s.record(e)
	if err != nil {
		onFailure(e, err)
		return
	}

	p, err := s.producer.get()
	if err != nil {
		onFailure(e, err)
		return
	}

	outcome := s.delivery.Send(context.Background(), p, record, e, onFailure)
	if outcome == Failed {
		return
	}

	event := base
	event.Outcome = outcome
	a.dispatchEvent(&event, startTime, nil)
}

// record turns e into a Kafka record.
func (s *session) record(e *Event) (*kgo.Record, error) {
	doc := s.assembler.Assemble(e)

	payload, err := doc.Serialize(s.prefix)
	if err != nil {
		return nil, err
	}

	value, err := s.encoder.Encode(payload)
	if err != nil {
		if !errors.Is(err, ErrEncoding) {
			err = errors.Join(ErrEncoding, err)
		}
		return nil, err
	}

	r := &kgo.Record{
		Topic:   s.topic,
		Key:     s.keying.CreateKey(e),
		Value:   value,
		Headers: buildHeaders(s.headers, e),
	}
	if !e.Time.IsZero() {
		r.Timestamp = e.Time
	}
	return r, nil
}

// fail hands e to every fallback sink and reports the failure.
func (a *Appender) fail(e *Event, event *DeliveryEvent, since time.Time, err error) {
	a.log().Log(kgo.LogLevelDebug, "delivery failed, routing event to fallback",
		"topic", event.Topic, "error", err.Error())

	for _, s := range a.Fallbacks() {
		s.Append(e)
	}

	event.Outcome = Failed
	a.dispatchEvent(event, since, err)
}

// dispatchEvent dispatches a DeliveryEvent to all registered listeners.
func (a *Appender) dispatchEvent(event *DeliveryEvent, since time.Time, err error) {
	if err != nil {
		event.Error = err
		event.ErrorType = errorType(err)
	}
	event.Duration = time.Since(since)

	a.deliveryEventListeners.Visit(func(listener func(*DeliveryEvent)) {
		listener(event)
	})
}

// BufferedRecords returns the number of records and bytes buffered by the
// Kafka client. Returns zeros if the client has not been created.
func (a *Appender) BufferedRecords() (records, bytes int64) {
	s := a.session.Load()
	if s == nil {
		return 0, 0
	}

	p, ok := s.producer.peek()
	if !ok {
		return 0, 0
	}
	return p.BufferedProduceRecords(), p.BufferedProduceBytes()
}

func (a *Appender) log() kgo.Logger {
	if a.Logger == nil {
		return &nopLogger{}
	}
	return a.Logger
}
