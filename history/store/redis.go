package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krishiq/krishiq/config"
	"github.com/krishiq/krishiq/errors"
	"github.com/krishiq/krishiq/history"
)

// RedisStore implements history storage using Redis. Records are stored as
// JSON values under a key prefix, with a companion set indexing the IDs.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ history.Store = (*RedisStore)(nil)

// RedisConfig holds Redis configuration for the history store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// DefaultRedisConfig returns the default Redis configuration.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:   "localhost:6379",
		Prefix: "krishiq:history:",
		TTL:    30 * 24 * time.Hour,
	}
}

// RedisConfigFromEnv loads Redis configuration from environment variables.
func RedisConfigFromEnv() *RedisConfig {
	cfg := DefaultRedisConfig()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	cfg.Password = os.Getenv("REDIS_PASSWORD")
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			cfg.DB = n
		}
	}
	return cfg
}

// Validate checks the configuration for common mistakes.
func (c *RedisConfig) Validate() error {
	return config.ValidateRedisConfig(c.Addr, c.DB, c.Prefix)
}

// NewRedisStore creates a Redis-backed history store.
func NewRedisStore(cfg *RedisConfig) *RedisStore {
	if cfg == nil {
		cfg = DefaultRedisConfig()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "krishiq:history:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

// Save persists a record, replacing any record with the same ID.
func (s *RedisStore) Save(ctx context.Context, record *history.Record) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("history record must have an ID: %w", errors.ErrInvalidInput)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	if err := s.client.Set(ctx, s.recordKey(record.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}
	if err := s.client.SAdd(ctx, s.indexKey(), record.ID).Err(); err != nil {
		return fmt.Errorf("failed to index history record: %w", err)
	}
	return nil
}

// Load retrieves a record by ID.
func (s *RedisStore) Load(ctx context.Context, id string) (*history.Record, error) {
	raw, err := s.client.Get(ctx, s.recordKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("history record %s: %w", id, errors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load history record: %w", err)
	}

	var record history.Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to decode history record: %w", err)
	}
	return &record, nil
}

// List returns the IDs of all stored records.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history records: %w", err)
	}
	return ids, nil
}

// Delete removes a record by ID.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.recordKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	if err := s.client.SRem(ctx, s.indexKey(), id).Err(); err != nil {
		return fmt.Errorf("failed to update history index: %w", err)
	}
	return nil
}

// Clear removes all records and the index.
func (s *RedisStore) Clear(ctx context.Context) error {
	ids, err := s.List(ctx)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.recordKey(id))
	}
	keys = append(keys, s.indexKey())

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count history records: %w", err)
	}
	return int(n), nil
}

// Ping checks that the Redis connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) recordKey(id string) string {
	return s.prefix + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "ids"
}
