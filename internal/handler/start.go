package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleStart drops any pending flow and shows the section menu.
func (h *Handler) handleStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat.Type != models.ChatTypePrivate {
		return
	}
	userID := update.Message.From.ID
	h.flows.Clear(userID)
	h.showMenu(ctx, userID)
}

func (h *Handler) handleMenu(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	h.answer(ctx, update, "", false)
	h.showMenu(ctx, update.CallbackQuery.From.ID)
}

func (h *Handler) showMenu(ctx context.Context, userID int64) {
	if _, err := h.renderer.RenderText(ctx, userID, textMenu, menuKeyboard()); err != nil {
		slog.Error("show menu", "user_id", userID, "error", err)
	}
}
