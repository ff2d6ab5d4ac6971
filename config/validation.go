package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var supportedBackends = map[string]struct{}{
	BackendFile:   {},
	BackendRedis:  {},
	BackendSQLite: {},
}

var supportedProviders = map[string]struct{}{
	"openai": {},
	"gemini": {},
	"mock":   {},
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(c.Listen) == "" {
		return newFieldError("listen", "must not be empty")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return newFieldError("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}

	if _, ok := supportedBackends[c.Cache.Backend]; !ok {
		return newFieldError("cache.backend", fmt.Sprintf("unsupported backend %q (file|redis|sqlite)", c.Cache.Backend))
	}
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Path == "" {
			return newFieldError("cache.path", "must not be empty")
		}
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return newFieldError("cache.redis_url", "must not be empty")
		}
	case BackendSQLite:
		if c.Cache.SQLitePath == "" {
			return newFieldError("cache.sqlite_path", "must not be empty")
		}
	}
	if c.Cache.MaxEntriesPerPartition < 0 {
		return newFieldError("cache.max_entries_per_partition", "must not be negative")
	}

	if c.Batch.Size <= 0 {
		return newFieldError("batch.size", "must be greater than 0")
	}
	if c.Batch.Delay < 0 {
		return newFieldError("batch.delay", "must not be negative")
	}

	if _, ok := supportedProviders[c.Provider.Type]; !ok {
		return newFieldError("provider.type", fmt.Sprintf("unsupported provider %q (openai|gemini|mock)", c.Provider.Type))
	}
	if c.Provider.RequestsPerMinute < 0 {
		return newFieldError("provider.requests_per_minute", "must not be negative")
	}
	if c.Provider.Breaker.Enabled && c.Provider.Breaker.Timeout <= 0 {
		return newFieldError("provider.breaker.timeout", "must be greater than 0")
	}

	return nil
}
