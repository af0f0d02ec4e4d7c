package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// RetryPolicy bounds how hard the gateway tries before giving up
type RetryPolicy struct {
	Attempts       int
	Backoff        time.Duration
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy returns 3 attempts, 750ms apart, 60s each.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       3,
		Backoff:        750 * time.Millisecond,
		AttemptTimeout: 60 * time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.Attempts <= 0 {
		p.Attempts = def.Attempts
	}
	if p.Backoff < 0 {
		p.Backoff = def.Backoff
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = def.AttemptTimeout
	}
	return p
}

// withRetry runs fn until it succeeds, fails permanently or the attempt
// budget is spent. Quota failures are never retried.
func withRetry[T any](ctx context.Context, policy RetryPolicy, logger *zap.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	policy = policy.normalized()
	attempt := 0

	operation := func() (T, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
		defer cancel()

		result, err := fn(attemptCtx)
		if err == nil {
			return result, nil
		}
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = WrapError(KindTimeout, "attempt exceeded "+policy.AttemptTimeout.String(), err)
		}

		kind := KindOf(err)
		logger.Warn("Gateway attempt failed",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.String("kind", string(kind)),
			zap.Error(err))

		if !kind.Retryable() {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(policy.Backoff)),
		backoff.WithMaxTries(uint(policy.Attempts)),
	)
}
