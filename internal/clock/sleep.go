// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// Sleeper waits for d or until ctx is done. Long running loops take one so
// tests can replace real waits.
type Sleeper func(ctx context.Context, d time.Duration) error

// OrDefault returns s, or SleepWithContext when s is nil.
func (s Sleeper) OrDefault() Sleeper {
	if s == nil {
		return SleepWithContext
	}
	return s
}

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
