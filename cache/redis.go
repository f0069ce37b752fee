package cache

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	chatlate "github.com/ZaguanLabs/chatlate"
	"github.com/redis/go-redis/v9"
)

const (
	fieldInput  = "input"
	fieldOutput = "output"

	// opTimeout bounds every Redis round trip; a slow cache is a miss.
	opTimeout = 2 * time.Second
)

// Redis is a Redis-backed cache. Each direction is one hash holding the
// last input and result, so several chat processes can share the slots.
type Redis struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *slog.Logger
	enabled   [len(directions)]atomic.Bool
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string       // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int          // TTL in seconds (0 = no expiration)
	KeyPrefix string       // Prefix for all keys (default: "chatlate:")
	Logger    *slog.Logger // Receives Redis errors (default: slog.Default())
}

// NewRedis creates a new Redis cache with the given configuration.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &chatlate.CacheError{Message: "invalid redis url", Cause: err}
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &chatlate.CacheError{Message: "redis unreachable", Cause: err}
	}

	return NewRedisFromClient(client, cfg.TTL, cfg.KeyPrefix, cfg.Logger), nil
}

// NewRedisFromClient creates a Redis cache from an existing client.
func NewRedisFromClient(client *redis.Client, ttlSeconds int, keyPrefix string, logger *slog.Logger) *Redis {
	if keyPrefix == "" {
		keyPrefix = chatlate.Name + ":"
	}
	if logger == nil {
		logger = slog.Default()
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	c := &Redis{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		logger:    logger.With(slog.String("cache", "redis")),
	}
	for i := range c.enabled {
		c.enabled[i].Store(true)
	}
	return c
}

func (c *Redis) key(dir chatlate.Direction) string {
	return c.keyPrefix + dir.String()
}

// Get returns the stored result when text equals the last input for dir.
// Redis errors are logged and reported as a miss.
func (c *Redis) Get(dir chatlate.Direction, text string) (string, bool) {
	if !c.Enabled(dir) {
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	vals, err := c.client.HMGet(ctx, c.key(dir), fieldInput, fieldOutput).Result()
	if err != nil {
		c.logger.Warn("cache read failed", slog.String("direction", dir.String()), slog.String("error", err.Error()))
		return "", false
	}

	if len(vals) < 2 {
		return "", false
	}
	input, ok := vals[0].(string)
	if !ok || input != text {
		return "", false
	}
	output, ok := vals[1].(string)
	if !ok {
		return "", false
	}
	return output, true
}

// Put replaces the slot for dir. Both fields are written by one HSET.
func (c *Redis) Put(dir chatlate.Direction, text, result string) {
	if !c.Enabled(dir) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	key := c.key(dir)
	if err := c.client.HSet(ctx, key, fieldInput, text, fieldOutput, result).Err(); err != nil {
		c.logger.Warn("cache write failed", slog.String("direction", dir.String()), slog.String("error", err.Error()))
		return
	}

	if c.ttl > 0 {
		if err := c.client.Expire(ctx, key, c.ttl).Err(); err != nil {
			c.logger.Warn("cache expire failed", slog.String("direction", dir.String()), slog.String("error", err.Error()))
		}
	}
}

// SetEnabled toggles caching for dir in this process only.
func (c *Redis) SetEnabled(dir chatlate.Direction, enabled bool) {
	if validDirection(dir) {
		c.enabled[dir].Store(enabled)
	}
}

// Enabled reports whether caching is on for dir.
func (c *Redis) Enabled(dir chatlate.Direction) bool {
	return validDirection(dir) && c.enabled[dir].Load()
}

// Clear deletes both slots.
func (c *Redis) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(directions))
	for _, dir := range directions {
		keys = append(keys, c.key(dir))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return &chatlate.CacheError{Message: "clear failed", Cause: err}
	}
	return nil
}

// Close closes the Redis connection.
func (c *Redis) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

var _ chatlate.ResultCache = (*Redis)(nil)
