// Package retry re-runs a failing operation a bounded number of times.
package retry

import (
	"context"
	"time"

	"inkdo/hal"
)

// Policy bounds the attempts: one call plus Retries more, Delay apart.
type Policy struct {
	Retries int
	Delay   time.Duration
}

// Do calls fn until it succeeds or the retries are used up and returns the
// last error. Failed attempts that will be retried are logged as warnings.
// A canceled ctx stops further attempts.
func Do[T any](ctx context.Context, p Policy, log hal.Logger, fn func(context.Context) (T, error)) (T, error) {
	var (
		v   T
		err error
	)
	for i := 0; i <= p.Retries; i++ {
		v, err = fn(ctx)
		if err == nil || i == p.Retries {
			return v, err
		}
		hal.Logf(log, "warn: retry: attempt %d of %d failed: %v", i+1, p.Retries+1, err)
		if p.Delay > 0 {
			t := time.NewTimer(p.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return v, err
			case <-t.C:
			}
		} else if ctx.Err() != nil {
			return v, err
		}
	}
	return v, err
}
