package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterRedis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitStoreType selects where rate limit counters live
type RateLimitStoreType string

const (
	// RateLimitStoreMemory counts per process; fine for one instance
	RateLimitStoreMemory RateLimitStoreType = "memory"
	// RateLimitStoreRedis shares counters across instances
	RateLimitStoreRedis RateLimitStoreType = "redis"
)

// RateLimitConfig configures one per-IP limiter
type RateLimitConfig struct {
	RequestsPerMinute int
	StoreType         RateLimitStoreType
	RedisClient       *redis.Client
	CleanupInterval   time.Duration
}

// CreateRedisClient opens a Redis connection for the rate limit store and
// pings it so a misconfigured address fails at startup, not on the first
// limited request.
func CreateRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRateLimiter builds a per-IP limiter over a one-minute window. Limited
// requests get a 429 in the API's JSON error shape.
func NewRateLimiter(config RateLimitConfig) (gin.HandlerFunc, error) {
	if config.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("requests per minute must be positive, got %d", config.RequestsPerMinute)
	}

	var counters limiter.Store
	switch config.StoreType {
	case RateLimitStoreRedis:
		if config.RedisClient == nil {
			return nil, fmt.Errorf("redis store selected but no client provided")
		}
		var err error
		counters, err = limiterRedis.NewStoreWithOptions(config.RedisClient, limiter.StoreOptions{
			Prefix:          "ratelimit",
			CleanUpInterval: config.CleanupInterval,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis rate limit store: %w", err)
		}
	default:
		counters = memory.NewStore()
	}

	instance := limiter.New(counters, limiter.Rate{
		Period: time.Minute,
		Limit:  int64(config.RequestsPerMinute),
	})

	reached := mgin.WithLimitReachedHandler(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":             "rate_limit_exceeded",
			"error_description": "Too many requests, slow down",
		})
	})
	return mgin.NewMiddleware(instance, reached), nil
}

// NewMemoryRateLimiter is the single-instance shorthand
func NewMemoryRateLimiter(requestsPerMinute int) (gin.HandlerFunc, error) {
	return NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		StoreType:         RateLimitStoreMemory,
	})
}
