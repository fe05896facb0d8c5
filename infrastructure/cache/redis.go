package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/Mizanur7464/home-depot/pkg/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Read-path TTLs. Lists churn with every refresh, single deals less so.
const (
	TTLDealList = 5 * time.Minute
	TTLDeal     = 10 * time.Minute
)

// Cache is a read-through cache with graceful degradation: every method is
// safe to call while Redis is down and reports a miss instead of an error.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	DeletePattern(ctx context.Context, pattern string)
	Available() bool
}

type redisCache struct {
	client   *redis.Client
	cooldown time.Duration

	mu          sync.Mutex
	downUntil   time.Time
	degradedLog bool
}

func New(cfg *config.Config) (Cache, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	cooldown := cfg.Redis.CooldownInterval
	if cooldown <= 0 {
		cooldown = time.Minute
	}

	return &redisCache{
		client:   redis.NewClient(opts),
		cooldown: cooldown,
	}, nil
}

// Available reports whether the breaker is closed. It never touches the
// network; state changes only on the back of real operation failures.
func (c *redisCache) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().After(c.downUntil)
}

// markFailure opens the breaker for the cooldown window. Repeated failures
// inside the window do not extend it further than one cooldown from now.
func (c *redisCache) markFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.downUntil = time.Now().Add(c.cooldown)
	if !c.degradedLog {
		log.L.WithError(err).Warnf("cache: redis unavailable, degrading for %s", c.cooldown)
		c.degradedLog = true
	}
}

func (c *redisCache) markSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.degradedLog {
		log.L.Info("cache: redis recovered")
	}
	c.degradedLog = false
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) bool {
	if !c.Available() {
		return false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.markFailure(err)
		}
		return false
	}
	c.markSuccess()

	if err := json.Unmarshal(payload, dest); err != nil {
		log.L.WithError(err).WithField("key", key).Warn("cache: corrupt entry, dropping")
		c.client.Del(ctx, key)
		return false
	}

	return true
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Available() {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		log.L.WithError(err).WithField("key", key).Warn("cache: failed to encode value")
		return
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.markFailure(err)
		return
	}
	c.markSuccess()
}

// DeletePattern removes all keys matching the glob pattern. Uses SCAN so a
// large invalidation never blocks the server the way KEYS would.
func (c *redisCache) DeletePattern(ctx context.Context, pattern string) {
	if !c.Available() {
		return
	}

	var cursor uint64
	deleted := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.markFailure(err)
			return
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.markFailure(err)
				return
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.markSuccess()

	if deleted > 0 {
		log.L.WithFields(log.Fields{
			"pattern": pattern,
			"deleted": deleted,
		}).Debug("cache: invalidated keys")
	}
}

// Noop is used when Redis is not configured; every read is a miss.
type Noop struct{}

func (Noop) Get(context.Context, string, any) bool           { return false }
func (Noop) Set(context.Context, string, any, time.Duration) {}
func (Noop) DeletePattern(context.Context, string)           {}
func (Noop) Available() bool                                 { return false }
