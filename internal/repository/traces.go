package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Traces stores render traces in Postgres. Used when Redis is not configured.
type Traces struct {
	pool *pgxpool.Pool
}

func NewTraces(pool *pgxpool.Pool) *Traces {
	return &Traces{pool: pool}
}

func (r *Traces) LoadTrace(ctx context.Context, userID int64) ([]int, error) {
	var ids []int32
	err := r.pool.QueryRow(ctx, `SELECT message_ids FROM render_traces WHERE user_id = $1`, userID).Scan(&ids)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select render trace: %w", err)
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out, nil
}

func (r *Traces) SaveTrace(ctx context.Context, userID int64, messageIDs []int) error {
	ids := make([]int32, len(messageIDs))
	for i, id := range messageIDs {
		ids[i] = int32(id)
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO render_traces (user_id, message_ids, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET message_ids = EXCLUDED.message_ids, updated_at = now()`,
		userID, ids)
	if err != nil {
		return fmt.Errorf("upsert render trace: %w", err)
	}
	return nil
}
