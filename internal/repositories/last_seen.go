package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-microblog/internal/logger"
)

// LastSeenThrottleRepository limits last-seen writes to one per user per window using Redis.
type LastSeenThrottleRepository struct {
	client *redis.Client
	window time.Duration
}

// NewLastSeenThrottleRepository creates a throttle with the given window.
func NewLastSeenThrottleRepository(client *redis.Client, window time.Duration) *LastSeenThrottleRepository {
	return &LastSeenThrottleRepository{
		client: client,
		window: window,
	}
}

// Acquire reports whether the caller may write last-seen for userID now.
// The first caller in each window wins.
func (r *LastSeenThrottleRepository) Acquire(ctx context.Context, userID int64) (bool, error) {
	key := lastSeenKey(userID)
	ok, err := r.client.SetNX(ctx, key, time.Now().Unix(), r.window).Result()

	logger.Log.Infow("redis setnx",
		"key", key,
		"result", ok,
		"error", err,
	)

	return ok, err
}

// Release drops the window for userID so the next request may write again.
func (r *LastSeenThrottleRepository) Release(ctx context.Context, userID int64) error {
	key := lastSeenKey(userID)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow("redis del",
		"key", key,
		"error", err,
	)

	return err
}

func lastSeenKey(userID int64) string {
	return fmt.Sprintf("last_seen:%d", userID)
}
