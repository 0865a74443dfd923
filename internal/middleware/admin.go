package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type ctxKey string

const AdminKey ctxKey = "admin"

// IsAdmin reports whether the update's sender was marked as an administrator.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(AdminKey).(bool)
	return v
}

// AdminLoader returns middleware that marks administrators in the context.
func AdminLoader(cfg interface{ IsAdmin(int64) bool }) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if id := userIDOf(update); id != 0 && cfg.IsAdmin(id) {
				ctx = context.WithValue(ctx, AdminKey, true)
			}
			next(ctx, b, update)
		}
	}
}
