package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. TRANSCACHE_CACHE_PATH.
const EnvPrefix = "TRANSCACHE"

// EnvConfigPath names a config file when --config is not given.
const EnvConfigPath = EnvPrefix + "_CONFIG"

// NewViper returns a viper instance with defaults and environment binding
// applied. Callers may bind flags on it before calling FromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path (optional), the environment and
// defaults.
func Load(path string) (*Config, error) {
	return FromViper(NewViper(), path)
}

// FromViper reads the optional config file into v, decodes and validates the
// result. An empty path falls back to $TRANSCACHE_CONFIG; with neither set
// only defaults, environment and bound flags apply.
func FromViper(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8000")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 10)
	v.SetDefault("log.compress", true)

	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.path", "translation_cache.json")
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.redis_prefix", "transcache:")
	v.SetDefault("cache.sqlite_path", "transcache.db")
	v.SetDefault("cache.max_entries_per_partition", 0)

	v.SetDefault("batch.size", 10)
	v.SetDefault("batch.delay", "1s")

	v.SetDefault("provider.type", "openai")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.temperature", 0.3)
	v.SetDefault("provider.requests_per_minute", 0)
	v.SetDefault("provider.breaker.enabled", false)
	v.SetDefault("provider.breaker.failures", 5)
	v.SetDefault("provider.breaker.timeout", "30s")
}

// applyDefaults normalizes names and picks up the vendor API key variables
// when no key is configured.
func applyDefaults(cfg *Config) {
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	cfg.Provider.Type = strings.ToLower(strings.TrimSpace(cfg.Provider.Type))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if cfg.Provider.APIKey == "" {
		switch cfg.Provider.Type {
		case "openai":
			cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.Provider.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
}
