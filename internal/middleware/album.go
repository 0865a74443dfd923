package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/service"
)

type albumKey struct{}

// Album returns middleware that holds back messages belonging to a media
// group until the group's window closes. Only the first part continues down
// the chain, carrying the whole group in its context; later parts stop here.
// onPart runs for every grouped part before it is buffered.
func Album(agg *service.Aggregator[*models.Message], onPart func(userID int64, mediaGroupID string)) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			msg := update.Message
			if msg == nil || msg.MediaGroupID == "" {
				next(ctx, b, update)
				return
			}

			if onPart != nil {
				onPart(userIDOf(update), msg.MediaGroupID)
			}

			parts, ok := agg.Submit(ctx, msg.MediaGroupID, msg)
			if !ok {
				return
			}
			slog.Debug("media group collected", "media_group_id", msg.MediaGroupID, "parts", len(parts))
			next(context.WithValue(ctx, albumKey{}, parts), b, update)
		}
	}
}

// Messages returns the media group collected for this update, or the update's
// own message when it was not part of a group.
func Messages(ctx context.Context, update *models.Update) []*models.Message {
	if parts, ok := ctx.Value(albumKey{}).([]*models.Message); ok && len(parts) > 0 {
		return parts
	}
	if update.Message == nil {
		return nil
	}
	return []*models.Message{update.Message}
}
