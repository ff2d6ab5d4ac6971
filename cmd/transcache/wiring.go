package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/ZaguanLabs/transcache"
	"github.com/ZaguanLabs/transcache/cache"
	"github.com/ZaguanLabs/transcache/config"
	"github.com/ZaguanLabs/transcache/logging"
	"github.com/ZaguanLabs/transcache/provider"
)

// newLogger initializes logging. Without a log file, output goes to w so
// command output on stdout stays clean.
func newLogger(cfg *config.Config, w io.Writer) (*logrus.Logger, error) {
	logger, err := logging.InitLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	if cfg.Log.File == "" {
		logger.SetOutput(w)
	}
	return logger, nil
}

// openStore builds the configured store and loads it.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (cache.Store, error) {
	opts := []cache.Option{
		cache.WithLogger(logger),
		cache.WithMaxEntriesPerPartition(cfg.Cache.MaxEntriesPerPartition),
	}

	var store cache.Store
	switch cfg.Cache.Backend {
	case config.BackendFile:
		store = cache.NewFileStore(cfg.Cache.Path, opts...)
	case config.BackendRedis:
		s, err := cache.NewRedisStore(cache.RedisConfig{
			URL:       cfg.Cache.RedisURL,
			KeyPrefix: cfg.Cache.RedisPrefix,
		}, opts...)
		if err != nil {
			return nil, &transcache.CacheError{Message: "failed to open redis cache", Cause: err}
		}
		store = s
	case config.BackendSQLite:
		s, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath, opts...)
		if err != nil {
			return nil, &transcache.CacheError{Message: "failed to open sqlite cache", Cause: err}
		}
		store = s
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}

	store.Load(ctx)
	return store, nil
}

// buildProvider creates the configured provider wrapped in the optional
// shared rate limit and circuit breaker.
func buildProvider(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (transcache.AIProvider, error) {
	p, err := provider.New(ctx, provider.Config{
		Type:        cfg.Provider.Type,
		APIKey:      cfg.Provider.APIKey,
		Model:       cfg.Provider.Model,
		BaseURL:     cfg.Provider.BaseURL,
		Temperature: cfg.Provider.Temperature,
	})
	if err != nil {
		return nil, err
	}

	if rpm := cfg.Provider.RequestsPerMinute; rpm > 0 {
		p = transcache.NewRateLimitedProvider(p, transcache.RateLimitConfig{RequestsPerMinute: rpm})
	}

	if b := cfg.Provider.Breaker; b.Enabled {
		p = transcache.NewBreakerProvider(p, transcache.BreakerConfig{
			Name:             cfg.Provider.Type,
			FailureThreshold: b.Failures,
			OpenTimeout:      b.Timeout,
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"action":   "provider_breaker",
					"provider": name,
					"from":     from.String(),
					"to":       to.String(),
				}).Warn("provider circuit breaker changed state")
			},
		})
	}

	return p, nil
}

// newCoordinator wires the provider and store into a Coordinator.
func newCoordinator(p transcache.AIProvider, store cache.Store, cfg *config.Config, logger *logrus.Logger) *transcache.Coordinator {
	bt := transcache.NewBatchTranslator(p,
		transcache.WithBatchSize(cfg.Batch.Size),
		transcache.WithBatchDelay(cfg.Batch.Delay),
		transcache.WithBatchLogger(logger),
	)
	return transcache.NewCoordinator(store, bt, transcache.WithLogger(logger))
}
