// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"tripai/backend/shared/logger"
)

// RateLimiter throttles the AI-backed endpoints with a Redis sliding
// window keyed per session. Redis being down never blocks a user: the
// limiter fails open.
type RateLimiter struct {
	client         *redis.Client
	limitPerMinute int
	log            *logger.Logger
}

// NewRateLimiter connects to Redis at redisURL. An empty URL disables
// limiting entirely (every check allows).
func NewRateLimiter(redisURL string, limitPerMinute int, log *logger.Logger) (*RateLimiter, error) {
	if log == nil {
		log = logger.New("rate-limiter")
	}
	rl := &RateLimiter{limitPerMinute: limitPerMinute, log: log}
	if redisURL == "" {
		return rl, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	rl.client = client
	return rl, nil
}

// NewRateLimiterWithClient wraps an existing client (used by tests).
func NewRateLimiterWithClient(client *redis.Client, limitPerMinute int, log *logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.New("rate-limiter")
	}
	return &RateLimiter{client: client, limitPerMinute: limitPerMinute, log: log}
}

// Allow reports whether the keyed caller is within its per-minute
// budget. Sliding window over a sorted set of request timestamps.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if rl.client == nil {
		return true
	}

	now := time.Now()
	redisKey := "ratelimit:" + key

	pipe := rl.client.Pipeline()
	minScore := now.Add(-time.Minute).UnixNano()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", minScore))
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, redisKey, 2*time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open: availability beats strict limiting here.
		rl.log.Warn("", logger.RequestIDFromContext(ctx), "rate limit check failed, allowing", map[string]interface{}{
			"error": err.Error(),
		})
		return true
	}

	if countCmd.Val() >= int64(rl.limitPerMinute) {
		promRateLimited.Inc()
		return false
	}
	return true
}

// Close releases the Redis connection.
func (rl *RateLimiter) Close() error {
	if rl.client == nil {
		return nil
	}
	return rl.client.Close()
}
