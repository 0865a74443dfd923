package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover returns middleware that recovers from panics and reports them to
// Sentry when a client is configured.
func Recover() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic recovered in handler",
						"panic", r,
						"update_id", update.ID,
						"stack", string(debug.Stack()),
					)
					report(ctx, r, update)
				}
			}()
			next(ctx, b, update)
		}
	}
}

func report(ctx context.Context, r any, update *models.Update) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub = hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("update_type", updateType(update))
		if id := userIDOf(update); id != 0 {
			scope.SetUser(sentry.User{ID: formatID(id)})
		}
	})
	hub.RecoverWithContext(ctx, r)
	hub.Flush(2 * time.Second)
}
