package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/clock"
	"go.uber.org/zap"
)

// Retry runs an operation a fixed number of times with a fixed pause between attempts.
type Retry struct {
	Attempts int
	Delay    time.Duration

	logger  *zap.Logger
	metrics Metrics
	sleep   clock.Sleeper
}

func NewRetry(attempts int, delay time.Duration, logger *zap.Logger, metrics Metrics) Retry {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Retry{Attempts: attempts, Delay: delay, logger: logger, metrics: metrics, sleep: clock.SleepWithContext}
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err}
}

// Do calls fn until it succeeds, returns a Permanent error, the context is
// done or the attempts run out. The last error is returned.
func Do[T any](ctx context.Context, r Retry, operation string, fn func(context.Context) (T, error)) (T, error) {
	var (
		zero T
		err  error
	)
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		var v T
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		var pe permanentError
		if errors.As(err, &pe) {
			return zero, pe.err
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if attempt == r.Attempts {
			break
		}

		r.logger.Warn("operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
			zap.Duration("sleep", r.Delay))
		if r.metrics != nil {
			r.metrics.ObserveRetry(operation)
		}
		if err := r.sleep(ctx, r.Delay); err != nil {
			return zero, err
		}
	}
	return zero, fmt.Errorf("%s: %d attempts: %w", operation, r.Attempts, err)
}
