package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/domain"
	"github.com/set-night/catalogbot/internal/middleware"
	"github.com/set-night/catalogbot/internal/service"
)

// HandleMessage feeds a private message, or a collected media group, into the
// sender's pending flow. Messages outside a flow are ignored.
func (h *Handler) HandleMessage(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || !middleware.IsAdmin(ctx) {
		return
	}
	userID := msg.From.ID

	switch flow := h.flows.Current(userID).(type) {
	case domain.CreateFlow:
		h.flows.Consume(userID)
		h.finishCreate(ctx, userID, msg, flow)
	case domain.RenameFlow:
		h.flows.Consume(userID)
		h.finishRename(ctx, userID, msg, flow)
	case domain.UploadFlow:
		h.finishUpload(ctx, userID, middleware.Messages(ctx, update), flow)
	}
}

func (h *Handler) finishCreate(ctx context.Context, userID int64, msg *models.Message, flow domain.CreateFlow) {
	c, err := h.categories.Create(ctx, flow.ParentID, msg.Text)
	if err != nil {
		h.flowFailed(ctx, userID, flow.PromptMessageID, "create category", err)
		return
	}
	slog.Info("category created", "admin_id", userID, "category_id", c.ID, "parent_id", flow.ParentID)
	h.tgLogger.LogCategoryCreated(userID, c.ID, c.Name)

	h.sender.DeleteMessages(ctx, userID, msg.ID)
	text := fmt.Sprintf(textCreated, c.Name)
	if err := h.sender.EditText(ctx, userID, flow.PromptMessageID, text, backKeyboard(flow.ParentID)); err != nil {
		slog.Warn("edit create prompt", "user_id", userID, "error", err)
	}
}

func (h *Handler) finishRename(ctx context.Context, userID int64, msg *models.Message, flow domain.RenameFlow) {
	c, err := h.categories.Rename(ctx, flow.CategoryID, msg.Text)
	if err != nil {
		h.flowFailed(ctx, userID, flow.PromptMessageID, "rename category", err)
		return
	}
	slog.Info("category renamed", "admin_id", userID, "category_id", c.ID, "name", c.Name)

	h.sender.DeleteMessages(ctx, userID, msg.ID)
	if err := h.sender.EditText(ctx, userID, flow.PromptMessageID, textRenamed, backKeyboard(flow.ParentID)); err != nil {
		slog.Warn("edit rename prompt", "user_id", userID, "error", err)
	}
}

// finishUpload classifies the upload, merges it into the target and renders
// the result. The flow ends either way; unsupported content changes nothing else.
func (h *Handler) finishUpload(ctx context.Context, userID int64, msgs []*models.Message, flow domain.UploadFlow) {
	h.flows.Consume(userID)

	content, err := service.Classify(msgs)
	if err != nil {
		slog.Info("upload skipped", "admin_id", userID, "category_id", flow.TargetCategoryID,
			"correlation_id", flow.CorrelationID, "error", err)
		return
	}

	h.sender.DeleteMessages(ctx, userID, append([]int{flow.PromptMessageID}, content.MessageIDs...)...)

	c, err := h.categories.Merge(ctx, flow.TargetCategoryID, content)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			slog.Warn("upload target gone", "admin_id", userID, "category_id", flow.TargetCategoryID)
			h.showMenu(ctx, userID)
			return
		}
		slog.Error("merge upload", "admin_id", userID, "category_id", flow.TargetCategoryID, "error", err)
		h.tgLogger.LogError(err, "merge into "+flow.TargetCategoryID)
		return
	}
	slog.Info("content merged",
		"admin_id", userID,
		"category_id", c.ID,
		"kind", content.Kind,
		"refs", len(content.Refs),
		"batch", content.Batch,
		"correlation_id", flow.CorrelationID,
	)

	h.render(ctx, userID, c.ID)
}

// flowFailed reports a failed create or rename on the prompt message.
func (h *Handler) flowFailed(ctx context.Context, userID int64, promptID int, op string, err error) {
	text := textSomethingWrong
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		text = textEmptyName
	case errors.Is(err, domain.ErrCategoryNotFound), errors.Is(err, domain.ErrParentNotFound):
		text = textNotFound
	default:
		slog.Error(op, "admin_id", userID, "error", err)
		h.tgLogger.LogError(err, op)
	}
	if err := h.sender.EditText(ctx, userID, promptID, text, menuKeyboard()); err != nil {
		slog.Warn("edit failed prompt", "user_id", userID, "error", err)
	}
}
