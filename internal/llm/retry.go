package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

const (
	defaultMaxRetries = 2
	defaultRetryDelay = 2 * time.Second
)

type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, delay time.Duration) error
}

func newRetryPolicy(cfg Config, logger *slog.Logger) retryPolicy {
	policy := retryPolicy{maxRetries: cfg.MaxRetries, baseDelay: cfg.RetryDelay, sleep: sleepContext}
	if policy.maxRetries < 0 {
		logger.Warn("invalid max retries, using default", "max_retries", defaultMaxRetries)
		policy.maxRetries = defaultMaxRetries
	}
	if policy.baseDelay <= 0 {
		policy.baseDelay = defaultRetryDelay
	}
	return policy
}

// run retries attempt while it fails with ErrTransient, backing off
// exponentially with jitter between 50% and 100% of the step.
func (policy retryPolicy) run(ctx context.Context, logger *slog.Logger, attempt func(ctx context.Context) (string, error)) (string, error) {
	for try := 0; ; try++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrTransient, err)
		}

		logger.InfoContext(ctx, "calling language model", "attempt", try+1, "max_attempts", policy.maxRetries+1)
		text, err := attempt(ctx)
		if err == nil {
			return text, nil
		}
		logger.ErrorContext(ctx, "language model call failed", "attempt", try+1, "error", err)

		if !errors.Is(err, ErrTransient) {
			return "", err
		}
		if try >= policy.maxRetries {
			return "", fmt.Errorf("exceeded %d retries: %w", policy.maxRetries, err)
		}

		backoff := float64(policy.baseDelay) * math.Pow(2, float64(try))
		delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5))
		logger.InfoContext(ctx, "retrying language model call", "attempt", try+1, "delay", delay)
		if err := policy.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", ErrTransient, err)
		}
	}
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
