// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logkafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitdabbler/backoff"
	"github.com/twmb/franz-go/pkg/kgo"
)

// FailureFunc is called with the original event when its record could not
// be delivered. It may be called from a Kafka client goroutine.
type FailureFunc func(e *Event, err error)

// DeliveryStrategy hands a record to the Producer. Strategies decide whether
// to wait for the broker and whether to retry; every failure must be reported
// through onFailure exactly once.
type DeliveryStrategy interface {
	Send(ctx context.Context, p Producer, r *kgo.Record, e *Event, onFailure FailureFunc) Outcome
}

// AsyncDelivery buffers the record and returns immediately, blocking only
// while the client buffer is full. The client retries according to its
// configuration; a final failure is reported from the client's callback.
type AsyncDelivery struct{}

// Send implements DeliveryStrategy.
func (AsyncDelivery) Send(ctx context.Context, p Producer, r *kgo.Record, e *Event, onFailure FailureFunc) Outcome {
	p.Produce(ctx, r, func(_ *kgo.Record, err error) {
		if err != nil {
			onFailure(e, classifyError(err))
		}
	})
	return Queued
}

// FireAndForgetDelivery never blocks: the record is rejected with
// ErrBufferFull when the client buffer is at capacity.
type FireAndForgetDelivery struct{}

// Send implements DeliveryStrategy.
func (FireAndForgetDelivery) Send(ctx context.Context, p Producer, r *kgo.Record, e *Event, onFailure FailureFunc) Outcome {
	p.TryProduce(ctx, r, func(_ *kgo.Record, err error) {
		if err != nil {
			onFailure(e, classifyError(err))
		}
	})
	return Attempted
}

// BlockingDelivery waits for the broker to acknowledge the record, retrying
// with exponential backoff.
type BlockingDelivery struct {
	// Timeout bounds the whole send including retries. Zero or negative
	// values mean no timeout.
	Timeout time.Duration

	// MaxAttempts is the number of produce attempts. Values below 1 mean a
	// single attempt.
	MaxAttempts int

	// MaxBackoff caps the delay between attempts.
	// Default: 1s.
	MaxBackoff time.Duration
}

// Send implements DeliveryStrategy.
func (b BlockingDelivery) Send(ctx context.Context, p Producer, r *kgo.Record, e *Event, onFailure FailureFunc) Outcome {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	attempts := max(b.MaxAttempts, 1)
	limit := b.MaxBackoff
	if limit <= 0 {
		limit = time.Second
	}

	bo, err := backoff.New(
		backoff.WithInitialDelay(0),
		backoff.WithExponentialLimit(limit),
	)
	if err != nil {
		attempts = 1
	}

	tried := 0
	for {
		tried++
		err = p.ProduceSync(ctx, r).FirstErr()
		if err == nil {
			return Accepted
		}

		if tried >= attempts || ctx.Err() != nil {
			break
		}
		bo.Sleep()
	}

	onFailure(e, fmt.Errorf("broker rejected record after %d attempt(s): %w", tried, classifyError(err)))
	return Failed
}

// classifyError tags a client error with the matching sentinel.
func classifyError(err error) error {
	switch {
	case errors.Is(err, kgo.ErrMaxBuffered):
		return errors.Join(ErrBufferFull, err)
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Join(ErrTimeout, err)
	case errors.Is(err, kgo.ErrClientClosed):
		return errors.Join(ErrNotStarted, err)
	default:
		return errors.Join(ErrBroker, err)
	}
}
