// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"errors"
	"sync"
	"sync/atomic"
)

// lazyProducer creates a Producer on first use. Reads after the first
// successful creation never block.
type lazyProducer struct {
	create func() (Producer, error)

	producer atomic.Pointer[producerHolder]
	closed   atomic.Bool
	mu       sync.Mutex
}

// producerHolder lets an interface value live in an atomic.Pointer.
type producerHolder struct {
	p Producer
}

func newLazyProducer(create func() (Producer, error)) *lazyProducer {
	return &lazyProducer{create: create}
}

// get returns the producer, creating it if needed. A failed creation leaves
// the handle empty so the next call tries again. Once closed, get fails with
// ErrNotStarted.
func (l *lazyProducer) get() (Producer, error) {
	if h := l.producer.Load(); h != nil {
		return h.p, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed.Load() {
		return nil, ErrNotStarted
	}
	if h := l.producer.Load(); h != nil {
		return h.p, nil
	}

	p, err := l.create()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Join(ErrProducer, errors.New("factory returned no producer"))
	}

	l.producer.Store(&producerHolder{p: p})
	return p, nil
}

// close marks the handle closed and returns the producer if one was created.
func (l *lazyProducer) close() (Producer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed.Store(true)
	h := l.producer.Swap(nil)
	if h == nil {
		return nil, false
	}
	return h.p, true
}

// peek returns the producer without creating it.
func (l *lazyProducer) peek() (Producer, bool) {
	h := l.producer.Load()
	if h == nil {
		return nil, false
	}
	return h.p, true
}
