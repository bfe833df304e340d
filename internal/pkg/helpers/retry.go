package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      zerolog.Logger
}

// BackOff returns the exponential policy for r: BaseDelay doubling per attempt,
// at most MaxAttempts calls, stopped when ctx is done.
func (r RetryConfig) BackOff(ctx context.Context) backoff.BackOff {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.BaseDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = r.BaseDelay << 10
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)
}

// Do runs fn under the back-off policy. Errors wrapped with backoff.Permanent are
// returned unwrapped at once.
func (r RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	attempt := 0
	var lastErr error
	op := func() error {
		attempt++
		lastErr = fn()
		return lastErr
	}
	notify := func(err error, next time.Duration) {
		r.Logger.Warn().Err(err).
			Str("operation", operationName).
			Int("attempt", attempt).
			Dur("retryIn", next).
			Msg("Operation failed, retrying")
	}

	err := backoff.RetryNotify(op, r.BackOff(ctx), notify)
	if err == nil {
		return nil
	}
	var permanent *backoff.PermanentError
	if errors.As(lastErr, &permanent) {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, attempt, lastErr)
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempt, err)
}
