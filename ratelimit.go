package transcache

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every request, so concurrent
// requests together stay under the provider's quota. It complements the
// fixed pause between batches of a single request.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	burst      float64
	perSecond  float64
	lastRefill time.Time
	now        func() time.Time
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum provider calls per minute
	BurstSize         int // Maximum burst size (default: 1)
}

// NewRateLimiter creates a new rate limiter with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}

	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		tokens:     burst,
		burst:      burst,
		perSecond:  rpm / 60.0,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// reserve takes a token if one is available and otherwise returns how long
// the caller has to wait for the next one.
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.tokens += now.Sub(r.lastRefill).Seconds() * r.perSecond
	if r.tokens > r.burst {
		r.tokens = r.burst
	}
	r.lastRefill = now

	if r.tokens >= 1 {
		r.tokens--
		return 0
	}

	missing := 1 - r.tokens
	return time.Duration(missing / r.perSecond * float64(time.Second))
}

// TryAcquire takes a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	return r.reserve() == 0
}

// Wait blocks until a token is taken or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait := r.reserve()
		if wait == 0 {
			return nil
		}
		if err := SleepContext(ctx, wait); err != nil {
			return err
		}
	}
}

// RateLimitedProvider wraps an AIProvider with a shared rate limit.
type RateLimitedProvider struct {
	provider AIProvider
	limiter  *RateLimiter
}

// NewRateLimitedProvider creates a new rate-limited provider.
func NewRateLimitedProvider(provider AIProvider, cfg RateLimitConfig) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  NewRateLimiter(cfg),
	}
}

// ValidatePair implements AIProvider.
func (p *RateLimitedProvider) ValidatePair(source, target string) error {
	return p.provider.ValidatePair(source, target)
}

// Translate implements AIProvider, waiting for a token first.
func (p *RateLimitedProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{
			Message:   "rate limit wait cancelled",
			Cause:     err,
			Retryable: false,
		}
	}

	return p.provider.Translate(ctx, req)
}

// Limiter returns the underlying rate limiter for inspection.
func (p *RateLimitedProvider) Limiter() *RateLimiter {
	return p.limiter
}
