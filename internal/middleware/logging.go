package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs update processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			next(ctx, b, update)

			attrs := []any{
				"type", updateType(update),
				"chat_id", chatIDOf(update),
				"user_id", userIDOf(update),
				"duration", time.Since(start),
			}
			if update.Message != nil && update.Message.MediaGroupID != "" {
				attrs = append(attrs, "media_group_id", update.Message.MediaGroupID)
			}
			slog.Debug("update processed", attrs...)
		}
	}
}

func updateType(update *models.Update) string {
	switch {
	case update.Message != nil:
		return "message"
	case update.CallbackQuery != nil:
		return "callback_query"
	default:
		return "unknown"
	}
}

func userIDOf(update *models.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}

func chatIDOf(update *models.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil:
		return update.CallbackQuery.Message.Message.Chat.ID
	}
	return 0
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
