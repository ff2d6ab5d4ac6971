package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultRedisPrefix is prepended to every partition key.
const DefaultRedisPrefix = "transcache:"

// RedisStore is a Store mirrored to Redis, one hash per language pair at
// "<prefix><source>:<target>". Lookups are served from memory.
type RedisStore struct {
	*Partitions

	client    *redis.Client
	keyPrefix string
	logger    *logrus.Logger
	mu        sync.Mutex
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379/0")
	KeyPrefix string // Prefix for all keys (default: "transcache:")
}

// NewRedisStore connects to Redis and creates a RedisStore. Call Load before
// use.
func NewRedisStore(cfg RedisConfig, opts ...Option) (*RedisStore, error) {
	redisOpts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix, opts...), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string, opts ...Option) *RedisStore {
	o := buildOptions(opts)
	if keyPrefix == "" {
		keyPrefix = DefaultRedisPrefix
	}
	return &RedisStore{
		Partitions: NewPartitions(o.maxEntries),
		client:     client,
		keyPrefix:  keyPrefix,
		logger:     o.logger,
	}
}

// Load scans every partition hash under the key prefix. Any Redis error
// leaves the store empty.
func (s *RedisStore) Load(ctx context.Context) {
	fields := logrus.Fields{"action": "cache_load", "backend": "redis", "prefix": s.keyPrefix}

	data, err := s.readAll(ctx)
	if err != nil {
		s.Replace(nil)
		s.logger.WithFields(fields).WithError(err).Warn("failed to load cache from redis, starting empty")
		return
	}

	s.Replace(data)
	fields["entries"] = s.Len()
	s.logger.WithFields(fields).Info("loaded cached translations")
}

func (s *RedisStore) readAll(ctx context.Context) (map[string]map[string]string, error) {
	data := make(map[string]map[string]string)

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning keys: %w", err)
		}

		for _, key := range keys {
			entries, err := s.client.HGetAll(ctx, key).Result()
			if err != nil {
				// Foreign keys under the prefix are skipped, not fatal.
				if strings.HasPrefix(err.Error(), "WRONGTYPE") {
					s.logger.WithFields(logrus.Fields{
						"action": "cache_load",
						"key":    key,
					}).WithError(err).Warn("skipping non-hash key")
					continue
				}
				return nil, fmt.Errorf("reading %s: %w", key, err)
			}
			data[strings.TrimPrefix(key, s.keyPrefix)] = entries
		}

		if next == 0 {
			return data, nil
		}
		cursor = next
	}
}

// Persist writes every pending entry inside one MULTI/EXEC transaction.
func (s *RedisStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.Pending()
	if len(pending) == 0 {
		return nil
	}

	keys := make([]string, 0, len(pending))
	for key := range pending {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.HSet(ctx, s.keyPrefix+key, flattenFields(pending[key])...)
		}
		return nil
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"action":  "cache_persist",
			"backend": "redis",
			"prefix":  s.keyPrefix,
		}).WithError(err).Error("failed to save cache")
		return fmt.Errorf("writing to redis: %w", err)
	}

	s.MarkPersisted(pending)
	return nil
}

// flattenFields turns a partition into sorted HSET field/value arguments.
func flattenFields(entries map[string]string) []interface{} {
	texts := make([]string, 0, len(entries))
	for text := range entries {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	args := make([]interface{}, 0, len(entries)*2)
	for _, text := range texts {
		args = append(args, text, entries[text])
	}
	return args
}

// Stats reports cache size and hit counters.
func (s *RedisStore) Stats() Stats {
	return s.stats("redis")
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Verify RedisStore implements Store
var _ Store = (*RedisStore)(nil)
