package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/domain"
)

// handleCancel abandons the pending flow, if any.
func (h *Handler) handleCancel(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	flow := h.flows.Consume(userID)
	if _, none := flow.(domain.NoFlow); none {
		h.sender.SendText(ctx, chatID, textNoFlow, nil)
		return
	}
	slog.Info("flow cancelled", "user_id", userID, "flow", flow.FlowName())
	h.sender.SendText(ctx, chatID, textCancelled, menuKeyboard())
}
