package service

import (
	"context"

	"github.com/set-night/catalogbot/internal/domain"
)

// CategoryStore is the persistence boundary for tree nodes and their slots.
// Each call is independently atomic; FindByID returns domain.ErrCategoryNotFound
// for unknown ids.
type CategoryStore interface {
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindChildren(ctx context.Context, parentID string) ([]domain.Category, error)
	Insert(ctx context.Context, c *domain.Category) error
	UpdateFields(ctx context.Context, id string, upd domain.CategoryUpdate) error
	DeleteByID(ctx context.Context, id string) error
}

// TraceStore keeps the message ids of the latest render per user.
type TraceStore interface {
	LoadTrace(ctx context.Context, userID int64) ([]int, error)
	SaveTrace(ctx context.Context, userID int64, messageIDs []int) error
}
