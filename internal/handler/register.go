package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Callback data prefixes. Each is followed by a category id, except menu.
const (
	cbMenu       = "menu"
	cbSection    = "sec:"
	cbCategory   = "cat:"
	cbCreate     = "cc:"
	cbUpload     = "cu:"
	cbRename     = "cr:"
	cbClean      = "cl:"
	cbCleanApply = "cx:"
	cbDelete     = "cd:"
)

// Register registers all command, callback and message handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, h.handleCancel)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stat", bot.MatchTypePrefix, h.handleStat)

	// Navigation callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbMenu, bot.MatchTypeExact, h.handleMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbSection, bot.MatchTypePrefix, h.handleSection)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbCategory, bot.MatchTypePrefix, h.handleCategory)

	// Admin callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbCreate, bot.MatchTypePrefix, h.handleCreate)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbUpload, bot.MatchTypePrefix, h.handleUpload)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbRename, bot.MatchTypePrefix, h.handleRename)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbClean, bot.MatchTypePrefix, h.handleClean)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbCleanApply, bot.MatchTypePrefix, h.handleCleanApply)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbDelete, bot.MatchTypePrefix, h.handleDelete)

	// Flow input: any private non-command message, text or media
	h.bot.RegisterHandlerMatchFunc(isFlowInput, h.HandleMessage)
}

func isFlowInput(update *models.Update) bool {
	msg := update.Message
	if msg == nil || msg.Chat.Type != models.ChatTypePrivate {
		return false
	}
	return !strings.HasPrefix(msg.Text, "/")
}

// callbackArg returns the callback data after prefix.
func callbackArg(update *models.Update, prefix string) string {
	return strings.TrimPrefix(update.CallbackQuery.Data, prefix)
}

// callbackMessageID returns the id of the message carrying the pressed button.
func callbackMessageID(update *models.Update) int {
	if msg := update.CallbackQuery.Message.Message; msg != nil {
		return msg.ID
	}
	return 0
}

func (h *Handler) answer(ctx context.Context, update *models.Update, text string, alert bool) {
	h.sender.AnswerCallback(ctx, update.CallbackQuery.ID, text, alert)
}
