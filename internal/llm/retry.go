package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider asks again when a failed call could succeed on a second try.
// Outages and rate limits back off exponentially with jitter. Malformed and
// rejected replies are resampled straight away.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	sleep func(context.Context, time.Duration) error
}

// WithRetry wraps p with the retry policy in cfg.
func WithRetry(p Provider, cfg RetryConfig) *RetryProvider {
	return &RetryProvider{inner: p, cfg: cfg, sleep: sleep}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)

	var err error
	for attempt := range attempts {
		var resp *Response
		if resp, err = r.inner.Generate(ctx, req); err == nil {
			return resp, nil
		}

		var f *Failure
		if !errors.As(err, &f) || !f.Retryable() || attempt == attempts-1 {
			return nil, err
		}
		if f.contentFailure() {
			continue
		}

		// A rate limit longer than MaxWait is not waited out; the caller
		// has a faster fallback than sitting idle.
		if r.cfg.MaxWait > 0 && f.RetryAfter > r.cfg.MaxWait {
			return nil, err
		}
		if werr := r.sleep(ctx, r.delay(attempt, f)); werr != nil {
			return nil, werr
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) delay(attempt int, f *Failure) time.Duration {
	if f.RetryAfter > 0 {
		return f.RetryAfter
	}

	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	if r.cfg.MaxWait > 0 {
		d = min(d, float64(r.cfg.MaxWait))
	}
	// ±20% jitter
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
