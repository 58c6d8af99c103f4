package database

import (
	"CareClinic/config"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	MinIdleConns int
	ReadTimeout  time.Duration
	MaxRetries   int
}

// LoadRedisConfig reads the pool settings from the environment with default fallbacks
func LoadRedisConfig(url string) (RedisConfig, error) {
	if url == "" {
		return RedisConfig{}, errors.New("REDIS_URL environment variable is not set")
	}

	return RedisConfig{
		URL:          url,
		PoolSize:     config.GetEnvAsInt("REDIS_POOL_SIZE", 10),
		DialTimeout:  config.GetEnvAsDuration("REDIS_DIAL_TIMEOUT", 30*time.Second),
		MinIdleConns: config.GetEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		ReadTimeout:  config.GetEnvAsDuration("REDIS_READ_TIMEOUT", 10*time.Second),
		MaxRetries:   config.GetEnvAsInt("REDIS_MAX_RETRIES", 3),
	}, nil
}

// NewRedisClient creates a Redis client with the provided configuration
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis server: %w", err)
	}

	log.Info().
		Int("pool_size", cfg.PoolSize).
		Int("min_idle_conns", cfg.MinIdleConns).
		Dur("dial_timeout", cfg.DialTimeout).
		Dur("read_timeout", cfg.ReadTimeout).
		Int("max_retries", cfg.MaxRetries).
		Msg("redis client initialized")
	return client, nil
}

const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// Locker hands out short lived SETNX locks.
type Locker struct {
	client     *redis.Client
	script     *redis.Script
	ttl        time.Duration
	maxRetries int
	retryDelay time.Duration
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{
		client:     client,
		script:     redis.NewScript(releaseLockScript),
		ttl:        10 * time.Second,
		maxRetries: 3,
		retryDelay: 200 * time.Millisecond,
	}
}

// Lock tries to take key a few times. acquired is false when another holder
// kept it for every attempt. The returned release func is always safe to call.
func (l *Locker) Lock(ctx context.Context, key string) (release func(), acquired bool, err error) {
	noop := func() {}
	if l == nil || l.client == nil {
		return noop, false, errors.New("Redis client is not initialized")
	}

	lockKey := "lock:" + key
	lockValue := uuid.New().String()
	for i := 0; i < l.maxRetries; i++ {
		acquired, err = l.client.SetNX(ctx, lockKey, lockValue, l.ttl).Result()
		if err != nil {
			return noop, false, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if acquired {
			break
		}
		if i < l.maxRetries-1 {
			select {
			case <-ctx.Done():
				return noop, false, ctx.Err()
			case <-time.After(l.retryDelay):
			}
		}
	}
	if !acquired {
		return noop, false, nil
	}

	return func() {
		// the request context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.release(releaseCtx, lockKey, lockValue); err != nil {
			log.Warn().Err(err).Str("key", lockKey).Msg("failed to release lock")
		}
	}, true, nil
}

func (l *Locker) release(ctx context.Context, key, value string) error {
	result, err := l.script.Run(ctx, l.client, []string{key}, value).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if n, ok := result.(int64); !ok || n == 0 {
		return errors.New("lock release failed: not the lock owner")
	}
	return nil
}

// RedisPoolStats returns the connection pool statistics for monitoring
func RedisPoolStats(client *redis.Client) map[string]uint32 {
	stats := client.PoolStats()
	return map[string]uint32{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
