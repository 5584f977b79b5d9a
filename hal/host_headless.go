package hal

import (
	"context"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	// Cycles stops the runner after N steps (0 = run until ctx is done).
	Cycles uint64
}

// StepFunc runs one control cycle and returns how long to wait before the next.
type StepFunc func(ctx context.Context) (time.Duration, error)

// RunHeadless drives step until ctx is done, the cycle budget runs out, or a
// step fails. A receive on wake cuts the current wait short.
func RunHeadless(ctx context.Context, step StepFunc, wake <-chan struct{}, cfg HeadlessConfig) error {
	var cycles uint64
	for {
		wait, err := step(ctx)
		if err != nil {
			return err
		}
		cycles++
		if cfg.Cycles > 0 && cycles >= cfg.Cycles {
			return nil
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-wake:
			t.Stop()
		case <-t.C:
		}
	}
}
