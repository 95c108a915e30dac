// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/twmb/franz-go/pkg/kgo"
)

// mockProducer is a mock implementation of Producer for testing.
type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Produce(ctx context.Context, r *kgo.Record, cb func(*kgo.Record, error)) {
	m.Called(ctx, r, cb)
}

func (m *mockProducer) TryProduce(ctx context.Context, r *kgo.Record, cb func(*kgo.Record, error)) {
	m.Called(ctx, r, cb)
}

func (m *mockProducer) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockProducer) Close() {
	m.Called()
}

func (m *mockProducer) BufferedProduceRecords() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *mockProducer) BufferedProduceBytes() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *mockProducer) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

// recordingSink collects the events appended to it.
type recordingSink struct {
	mu     sync.Mutex
	events []*Event
}

func (s *recordingSink) Append(e *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, e)
}

func (s *recordingSink) Events() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Event, len(s.events))
	copy(out, s.events)
	return out
}

// deliveryRecorder collects delivery events.
type deliveryRecorder struct {
	mu     sync.Mutex
	events []DeliveryEvent
}

func (r *deliveryRecorder) listen(e *DeliveryEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, *e)
}

func (r *deliveryRecorder) Events() []DeliveryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]DeliveryEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *deliveryRecorder) outcomes() []Outcome {
	var out []Outcome
	for _, e := range r.Events() {
		out = append(out, e.Outcome)
	}
	return out
}
