package handler

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/config"
	"github.com/set-night/catalogbot/internal/domain"
	"github.com/set-night/catalogbot/internal/middleware"
)

func (h *Handler) handleSection(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	name := callbackArg(update, cbSection)
	if !slices.Contains(config.Sections, name) {
		h.answer(ctx, update, textNotFound, true)
		return
	}
	h.answer(ctx, update, "", false)

	section, err := h.categories.EnsureSection(ctx, name)
	if err != nil {
		slog.Error("ensure section", "section", name, "error", err)
		h.tgLogger.LogError(err, "ensure section "+name)
		return
	}
	h.render(ctx, update.CallbackQuery.From.ID, section.ID)
}

func (h *Handler) handleCategory(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	id := callbackArg(update, cbCategory)
	if _, err := h.categories.Get(ctx, id); err != nil {
		h.answerLookupError(ctx, update, id, err)
		return
	}
	h.answer(ctx, update, "", false)
	h.render(ctx, update.CallbackQuery.From.ID, id)
}

// handleCreate asks for the name of a new child category.
func (h *Handler) handleCreate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil || !middleware.IsAdmin(ctx) {
		return
	}
	userID := update.CallbackQuery.From.ID
	parentID := callbackArg(update, cbCreate)
	h.answer(ctx, update, btnAdd, false)

	promptID, ok := h.replacePrompt(ctx, update, textAskName)
	if !ok {
		return
	}
	h.flows.Enter(userID, domain.CreateFlow{ParentID: &parentID, PromptMessageID: promptID})
}

// handleUpload asks for content to merge into the category.
func (h *Handler) handleUpload(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil || !middleware.IsAdmin(ctx) {
		return
	}
	userID := update.CallbackQuery.From.ID
	id := callbackArg(update, cbUpload)
	c, err := h.categories.Get(ctx, id)
	if err != nil {
		h.answerLookupError(ctx, update, id, err)
		return
	}
	h.answer(ctx, update, btnContent, false)

	promptID, ok := h.replacePrompt(ctx, update, textAskContent)
	if !ok {
		return
	}
	h.flows.Enter(userID, domain.UploadFlow{PendingUpload: domain.PendingUpload{
		TargetCategoryID: c.ID,
		ParentCategoryID: c.ParentID,
		PromptMessageID:  promptID,
	}})
}

// handleRename turns the pressed message into a prompt for the new name.
func (h *Handler) handleRename(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil || !middleware.IsAdmin(ctx) {
		return
	}
	userID := update.CallbackQuery.From.ID
	id := callbackArg(update, cbRename)
	c, err := h.categories.Get(ctx, id)
	if err != nil {
		h.answerLookupError(ctx, update, id, err)
		return
	}
	h.answer(ctx, update, btnRename, false)

	promptID := callbackMessageID(update)
	if err := h.sender.EditText(ctx, userID, promptID, textAskRename, nil); err != nil {
		slog.Warn("edit rename prompt, sending new one", "user_id", userID, "error", err)
		if promptID, err = h.sender.SendText(ctx, userID, textAskRename, nil); err != nil {
			slog.Error("send rename prompt", "user_id", userID, "error", err)
			return
		}
	}
	h.flows.Enter(userID, domain.RenameFlow{CategoryID: c.ID, ParentID: c.ParentID, PromptMessageID: promptID})
}

// handleClean shows which slots can be emptied.
func (h *Handler) handleClean(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil || !middleware.IsAdmin(ctx) {
		return
	}
	userID := update.CallbackQuery.From.ID
	id := callbackArg(update, cbClean)
	c, err := h.categories.Get(ctx, id)
	if err != nil {
		h.answerLookupError(ctx, update, id, err)
		return
	}
	h.answer(ctx, update, btnClean, false)

	if _, err := h.renderer.RenderText(ctx, userID, textCleanPick, cleanKeyboard(c)); err != nil {
		slog.Error("show clean menu", "category_id", id, "error", err)
	}
}

// handleCleanApply empties one slot, or everything for "all", and re-renders.
func (h *Handler) handleCleanApply(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil || !middleware.IsAdmin(ctx) {
		return
	}
	userID := update.CallbackQuery.From.ID
	id, slot, ok := strings.Cut(callbackArg(update, cbCleanApply), ":")
	if !ok {
		h.answer(ctx, update, textSomethingWrong, true)
		return
	}

	var kind domain.MediaKind
	if slot != cleanAllSlot {
		if kind, ok = domain.ParseMediaKind(slot); !ok {
			h.answer(ctx, update, textSomethingWrong, true)
			return
		}
	}

	if _, err := h.categories.Clean(ctx, id, kind); err != nil {
		h.answerLookupError(ctx, update, id, err)
		return
	}
	slog.Info("category cleaned", "admin_id", userID, "category_id", id, "slot", slot)
	h.answer(ctx, update, textCleaned, true)
	h.render(ctx, userID, id)
}

// handleDelete removes the category with its subtree.
func (h *Handler) handleDelete(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil || !middleware.IsAdmin(ctx) {
		return
	}
	userID := update.CallbackQuery.From.ID
	id := callbackArg(update, cbDelete)
	c, err := h.categories.Get(ctx, id)
	if err != nil {
		h.answerLookupError(ctx, update, id, err)
		return
	}
	if err := h.categories.Delete(ctx, id); err != nil {
		h.answerLookupError(ctx, update, id, err)
		return
	}
	slog.Info("category deleted", "admin_id", userID, "category_id", id)
	h.tgLogger.LogCategoryDeleted(userID, id)
	h.answer(ctx, update, textDeleted, false)

	if _, err := h.renderer.RenderText(ctx, userID, textDeleted, backKeyboard(c.ParentID)); err != nil {
		slog.Error("show delete confirmation", "category_id", id, "error", err)
	}
}

func (h *Handler) render(ctx context.Context, userID int64, categoryID string) {
	if _, err := h.renderer.Render(ctx, categoryID, userID); err != nil {
		slog.Error("render category", "user_id", userID, "category_id", categoryID, "error", err)
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			h.tgLogger.LogError(err, "render "+categoryID)
		}
	}
}

// replacePrompt deletes the pressed message and sends text in its place.
func (h *Handler) replacePrompt(ctx context.Context, update *models.Update, text string) (int, bool) {
	userID := update.CallbackQuery.From.ID
	if id := callbackMessageID(update); id != 0 {
		if err := h.sender.DeleteMessage(ctx, userID, id); err != nil {
			slog.Debug("delete pressed message", "user_id", userID, "error", err)
		}
	}
	promptID, err := h.sender.SendText(ctx, userID, text, nil)
	if err != nil {
		slog.Error("send prompt", "user_id", userID, "error", err)
		return 0, false
	}
	return promptID, true
}

func (h *Handler) answerLookupError(ctx context.Context, update *models.Update, id string, err error) {
	if errors.Is(err, domain.ErrCategoryNotFound) {
		h.answer(ctx, update, textNotFound, true)
		return
	}
	slog.Error("category callback", "category_id", id, "data", update.CallbackQuery.Data, "error", err)
	h.tgLogger.LogError(err, "callback "+update.CallbackQuery.Data)
	h.answer(ctx, update, textSomethingWrong, true)
}
