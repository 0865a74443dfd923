package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const traceKeyPrefix = "trace:"

// Traces keeps render traces in Redis, one JSON list per user.
type Traces struct {
	client *redis.Client
}

func NewTraces(client *redis.Client) *Traces {
	return &Traces{client: client}
}

func (t *Traces) LoadTrace(ctx context.Context, userID int64) ([]int, error) {
	data, err := t.client.Get(ctx, TraceKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get render trace: %w", err)
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode render trace: %w", err)
	}
	return ids, nil
}

func (t *Traces) SaveTrace(ctx context.Context, userID int64, messageIDs []int) error {
	if messageIDs == nil {
		messageIDs = []int{}
	}
	data, err := json.Marshal(messageIDs)
	if err != nil {
		return fmt.Errorf("encode render trace: %w", err)
	}
	if err := t.client.Set(ctx, TraceKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("set render trace: %w", err)
	}
	return nil
}

func TraceKey(userID int64) string {
	return traceKeyPrefix + strconv.FormatInt(userID, 10)
}
