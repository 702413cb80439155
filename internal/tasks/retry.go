package tasks

import (
	"context"
	"time"
)

// RetryOpts configures RetryWithBackoff.
type RetryOpts struct {
	MaxRetries        int           // additional attempts after the first (default: 3)
	InitialDelay      time.Duration // delay before the first retry (default: 1s)
	BackoffMultiplier float64       // delay growth factor per retry (default: 2)
	MaxDelay          time.Duration // ceiling on the computed delay (default: 30s)

	// OnRetry is called before each retry sleep with the error that
	// triggered it, the upcoming attempt number (1-based), and the delay.
	OnRetry func(err error, attempt int, delay time.Duration)
}

func (o *RetryOpts) defaults() {
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = time.Second
	}
	if o.BackoffMultiplier <= 1 {
		o.BackoffMultiplier = 2
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
}

// RetryWithBackoff invokes op up to opts.MaxRetries+1 times, sleeping an
// exponentially growing delay between attempts. The delay before retry i is
// min(InitialDelay * BackoffMultiplier^(i-1), MaxDelay). Returns the last
// error unchanged when all attempts fail, or ctx.Err() if cancelled while
// waiting.
func RetryWithBackoff[T any](ctx context.Context, opts RetryOpts, op func(ctx context.Context) (T, error)) (T, error) {
	opts.defaults()

	var zero T
	var lastErr error

	delay := opts.InitialDelay
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if opts.OnRetry != nil {
				opts.OnRetry(lastErr, attempt, delay)
			}
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			delay = min(time.Duration(float64(delay)*opts.BackoffMultiplier), opts.MaxDelay)
		}

		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}

	return zero, lastErr
}
