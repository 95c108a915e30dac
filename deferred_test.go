// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeferredQueueFIFO(t *testing.T) {
	t.Parallel()

	var q deferredQueue
	assert.Nil(t, q.poll())

	a, b := &Event{Message: "a"}, &Event{Message: "b"}
	q.push(a)
	q.push(b)
	assert.Equal(t, 2, q.len())

	assert.Same(t, a, q.poll())
	assert.Same(t, b, q.poll())
	assert.Nil(t, q.poll())
	assert.Equal(t, 0, q.len())
}

func TestDeferredQueueConcurrentDrain(t *testing.T) {
	t.Parallel()

	const producers, perProducer = 8, 250

	var q deferredQueue

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.push(&Event{})
			}
		}()
	}
	wg.Wait()

	var (
		mu   sync.Mutex
		seen = make(map[*Event]int)
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := q.poll(); e != nil; e = q.poll() {
				mu.Lock()
				seen[e]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, producers*perProducer)
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}
}
