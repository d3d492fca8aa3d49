// Package ratelimit enforces per-IP fixed-window limits on the auth routes,
// counting in Redis so limits hold across replicas.
package ratelimit

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Counter increments a window-scoped key and returns the new count.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter implements Counter on a Redis client.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(addr string) *RedisCounter {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Limiter allows up to limit requests per IP per window. A nil Limiter or a
// failing counter lets requests through; the limiter must never take the
// service down with it.
type Limiter struct {
	counter Counter
	limit   int64
	window  time.Duration
	logger  *zap.Logger
}

func NewLimiter(counter Counter, perMinute int, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{
		counter: counter,
		limit:   int64(perMinute),
		window:  time.Minute,
		logger:  logger,
	}
}

// Middleware returns a fiber handler enforcing the limit.
func (l *Limiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil || l.counter == nil {
			return c.Next()
		}
		ip := c.IP()
		if ip == "" {
			ip = "unknown"
		}
		count, err := l.counter.Incr(c.Context(), "ratelimit:"+ip, l.window)
		if err != nil {
			l.logger.Warn("rate limit counter unavailable", zap.Error(err))
			return c.Next()
		}
		if count > l.limit {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		}
		return c.Next()
	}
}
