// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"sync"

	"github.com/eapache/queue"
)

// deferredQueue is an unbounded FIFO of events that must not be appended
// right away. Any goroutine may push or poll; each event is polled once.
// The zero value is an empty queue.
type deferredQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

func (d *deferredQueue) push(e *Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.q == nil {
		d.q = queue.New()
	}
	d.q.Add(e)
}

// poll removes and returns the oldest event, or nil if the queue is empty.
func (d *deferredQueue) poll() *Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.q == nil || d.q.Length() == 0 {
		return nil
	}
	return d.q.Remove().(*Event)
}

func (d *deferredQueue) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.q == nil {
		return 0
	}
	return d.q.Length()
}
