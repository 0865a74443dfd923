package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttleKeyPrefix = "throttle:"

// Throttle is a per-user time-window guard shared across bot replicas.
type Throttle struct {
	client *redis.Client
	window time.Duration
}

func NewThrottle(client *redis.Client, window time.Duration) *Throttle {
	return &Throttle{client: client, window: window}
}

// Allow claims the window for userID. It fails open when Redis is unreachable.
func (t *Throttle) Allow(ctx context.Context, userID int64) bool {
	ok, err := t.client.SetNX(ctx, throttleKeyPrefix+strconv.FormatInt(userID, 10), 1, t.window).Result()
	if err != nil {
		slog.Warn("throttle check failed", "user_id", userID, "error", err)
		return true
	}
	return ok
}
