package backoff

import (
	"context"
	"math"
	"time"
)

// Strategy returns the wait before retry number count, counting from zero
type Strategy func(count int, start time.Duration) time.Duration

func Exponential(count int, start time.Duration) time.Duration {
	if count > 30 {
		count = 30
	}
	if start > math.MaxInt64>>uint(count) {
		return math.MaxInt64
	}
	return start << uint(count)
}

func Linear(count int, start time.Duration) time.Duration {
	return time.Duration(count+1) * start
}

type Backoff struct {
	strategy Strategy
	start    time.Duration
	limit    time.Duration
	count    int
}

// New caps every wait at limit, zero limit means uncapped
func New(strategy Strategy, start time.Duration, limit time.Duration) *Backoff {
	return &Backoff{strategy: strategy, start: start, limit: limit}
}

func NewExponential(start time.Duration, limit time.Duration) *Backoff {
	return New(Exponential, start, limit)
}

func NewLinear(start time.Duration, limit time.Duration) *Backoff {
	return New(Linear, start, limit)
}

func (b *Backoff) Reset() {
	b.count = 0
}

// Next returns the upcoming wait without consuming it
func (b *Backoff) Next() time.Duration {
	d := b.strategy(b.count, b.start)
	if b.limit > 0 && (d <= 0 || d > b.limit) {
		d = b.limit
	}
	return d
}

// Wait sleeps for Next, or returns early with the ctx error
func (b *Backoff) Wait(ctx context.Context) error {
	timer := time.NewTimer(b.Next())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		b.count++
		return nil
	}
}

// Retry runs fn at most 1+retries times. retryable decides whether an error
// is worth another attempt; nil retries every error.
func Retry(ctx context.Context, b *Backoff, retries int, fn func() error, retryable func(error) bool) error {
	err := fn()
	for i := 0; i < retries && err != nil; i++ {
		if retryable != nil && !retryable(err) {
			return err
		}
		if werr := b.Wait(ctx); werr != nil {
			return err
		}
		err = fn()
	}
	return err
}
