package workflow

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const submitKeyPrefix = "forms:submit:"

// SubmitLimiter throttles form submissions per user with a redis key per
// window (SET NX EX). Redis being down fails open: a burst of submissions
// is less harmful than a dead form.
type SubmitLimiter struct {
	rdb    *redis.Client
	window time.Duration
}

func NewSubmitLimiter(rdb *redis.Client, window time.Duration) *SubmitLimiter {
	if window <= 0 {
		window = 30 * time.Second
	}
	return &SubmitLimiter{rdb: rdb, window: window}
}

func (l *SubmitLimiter) Allow(ctx context.Context, userID string) (bool, time.Duration) {
	key := submitKeyPrefix + userID
	ok, err := l.rdb.SetNX(ctx, key, 1, l.window).Result()
	if err != nil {
		log.Printf("workflow: submit limiter unavailable: %v", err)
		return true, 0
	}
	if ok {
		return true, 0
	}
	ttl, err := l.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl
}
