// Package config loads transcache settings from a config file, environment
// variables and command-line flags.
package config

import "time"

// Config is the full runtime configuration.
type Config struct {
	Listen   string         `mapstructure:"listen"`
	Log      LogConfig      `mapstructure:"log"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Provider ProviderConfig `mapstructure:"provider"`
}

// LogConfig controls log level and optional file rotation.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// Cache backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// CacheConfig selects the durable store.
type CacheConfig struct {
	Backend                string `mapstructure:"backend"`
	Path                   string `mapstructure:"path"`
	RedisURL               string `mapstructure:"redis_url"`
	RedisPrefix            string `mapstructure:"redis_prefix"`
	SQLitePath             string `mapstructure:"sqlite_path"`
	MaxEntriesPerPartition int    `mapstructure:"max_entries_per_partition"`
}

// BatchConfig controls provider batching.
type BatchConfig struct {
	Size  int           `mapstructure:"size"`
	Delay time.Duration `mapstructure:"delay"`
}

// ProviderConfig selects and tunes the translation provider.
type ProviderConfig struct {
	Type              string        `mapstructure:"type"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"`
	Temperature       float32       `mapstructure:"temperature"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Breaker           BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig enables the provider circuit breaker.
type BreakerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Failures uint32        `mapstructure:"failures"`
	Timeout  time.Duration `mapstructure:"timeout"`
}
