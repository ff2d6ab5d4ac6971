package transcache

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures a BreakerProvider.
type BreakerConfig struct {
	Name             string        // Breaker name used in logs (default: "provider")
	FailureThreshold uint32        // Consecutive failures that open the breaker (default: 5)
	OpenTimeout      time.Duration // Time spent open before probing again (default: 30s)
	OnStateChange    func(name string, from, to gobreaker.State)
}

// BreakerProvider wraps an AIProvider with a circuit breaker. While the
// breaker is open, batches fail immediately and the batch translator falls
// back to passthrough without waiting on a provider that is down.
type BreakerProvider struct {
	provider AIProvider
	cb       *gobreaker.CircuitBreaker
}

// NewBreakerProvider creates a provider guarded by a circuit breaker.
func NewBreakerProvider(provider AIProvider, cfg BreakerConfig) *BreakerProvider {
	if cfg.Name == "" {
		cfg.Name = "provider"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	threshold := cfg.FailureThreshold
	return &BreakerProvider{
		provider: provider,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: 1,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			// A cancelled request says nothing about provider health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: cfg.OnStateChange,
		}),
	}
}

// ValidatePair implements AIProvider. Validation never touches the breaker.
func (p *BreakerProvider) ValidatePair(source, target string) error {
	return p.provider.ValidatePair(source, target)
}

// Translate implements AIProvider through the circuit breaker.
func (p *BreakerProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	out, err := p.cb.Execute(func() (interface{}, error) {
		return p.provider.Translate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &ProviderError{Message: "circuit breaker open", Cause: err, Retryable: true}
		}
		return nil, err
	}
	return out.([]string), nil
}

// State returns the current breaker state.
func (p *BreakerProvider) State() gobreaker.State {
	return p.cb.State()
}
