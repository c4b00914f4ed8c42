package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p. Rate limits and unavailable providers are retried up to
// cfg.MaxAttempts; an invalid response is retried once; truncation, context
// errors and other client errors are returned immediately.
func WithRetry(p Provider, cfg RetryConfig) *RetryProvider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, cfg: cfg, sleep: sleepCtx}
}

func (r *RetryProvider) Name() string    { return r.inner.Name() }
func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err           error
		resp          *Response
		invalidBudget = 1
	)
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if serr := r.sleep(ctx, r.wait(attempt-1, err)); serr != nil {
				return nil, serr
			}
		}
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidBudget) {
			return nil, err
		}
	}
	return nil, err
}

func retryable(err error, invalidBudget *int) bool {
	var (
		rl    *ErrRateLimit
		down  *ErrProviderUnavailable
		inval *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &rl), errors.As(err, &down):
		return true
	case errors.As(err, &inval):
		*invalidBudget--
		return *invalidBudget >= 0
	default:
		return false
	}
}

// wait is the delay before retry number attempt+1. A server supplied
// Retry-After wins over the computed backoff.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	d = math.Min(d, float64(r.cfg.MaxWait))
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(d, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
