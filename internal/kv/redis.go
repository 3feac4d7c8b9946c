package kv

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectRetries = 3

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

// RedisStore implements Store on a Redis hash store. Field maps are hashes,
// sets are native sets, expiry uses Redis TTLs. Timeouts are generous to
// tolerate slow remote stores.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis, retrying connection establishment with
// bounded exponential backoff before giving up with ErrUnavailable.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	var client *redis.Client

	if cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}

		opt.PoolSize = 20
		opt.MinIdleConns = 2
		opt.DialTimeout = 10 * time.Second
		opt.ReadTimeout = 30 * time.Second
		opt.WriteTimeout = 30 * time.Second
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     20,
			MinIdleConns: 2,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		})
	}

	var lastErr error

	for attempt := 0; attempt < connectRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		lastErr = client.Ping(pingCtx).Err()
		cancel()

		if lastErr == nil {
			log.Printf("kv: connected to redis (attempt %d)", attempt+1)
			return &RedisStore{client: client}, nil
		}

		log.Printf("kv: redis connection attempt %d failed: %v", attempt+1, lastErr)

		if attempt < connectRetries-1 {
			select {
			case <-time.After(time.Second << attempt):
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			}
		}
	}

	_ = client.Close()

	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// SetMap writes all fields in a single HSET.
func (s *RedisStore) SetMap(ctx context.Context, key string, fields map[string]string) error {
	args := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		args[k] = v
	}

	if err := s.client.HSet(ctx, key, args).Err(); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}

	return nil
}

// GetMap reads all fields of key. HGETALL returns an empty map for a missing
// key, which matches the Store contract.
func (s *RedisStore) GetMap(ctx context.Context, key string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	return fields, nil
}

// Expire sets the TTL for key.
func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis expire failed: %w", err)
	}

	return nil
}

// Delete removes the given keys.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}

	return nil
}

// SAdd adds member to the set at key.
func (s *RedisStore) SAdd(ctx context.Context, key, member string) error {
	if err := s.client.SAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("redis sadd failed: %w", err)
	}

	return nil
}

// SRem removes member from the set at key.
func (s *RedisStore) SRem(ctx context.Context, key, member string) error {
	if err := s.client.SRem(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("redis srem failed: %w", err)
	}

	return nil
}

// SMembers returns all members of the set at key.
func (s *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}

	return members, nil
}

// ScanKeys enumerates keys matching prefix using cursor-based SCAN so large
// keyspaces do not block the server.
func (s *RedisStore) ScanKeys(ctx context.Context, prefix string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)

	for {
		batch, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan failed: %w", err)
		}

		keys = append(keys, batch...)

		if next == 0 {
			break
		}

		cursor = next
	}

	return keys, nil
}

// StorageBytes reports Redis used_memory from INFO.
func (s *RedisStore) StorageBytes(ctx context.Context) (int64, error) {
	info, err := s.client.Info(ctx, "memory").Result()
	if err != nil {
		return 0, fmt.Errorf("redis info failed: %w", err)
	}

	for _, line := range strings.Split(info, "\r\n") {
		if rest, ok := strings.CutPrefix(line, "used_memory:"); ok {
			bytes, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("redis info: bad used_memory: %w", err)
			}

			return bytes, nil
		}
	}

	return 0, nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Client returns the underlying Redis client for advanced operations.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}
