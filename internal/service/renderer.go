package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/set-night/catalogbot/internal/config"
	"github.com/set-night/catalogbot/internal/domain"
)

const (
	CaptionPlaceholder = "No caption"
	VoiceApology       = "Извините, не могу прислать вам голосовое сообщение, проверьте настройки конфиденциальности!"
	ContentApology     = "Извините, не удалось отправить часть материалов этого раздела."
)

// Platform is the subset of the chat platform the renderer drives. Message
// ids are returned in the order the platform assigned them.
type Platform interface {
	SendMedia(ctx context.Context, chatID int64, kind domain.MediaKind, ref string) (int, error)
	SendMediaGroup(ctx context.Context, chatID int64, kind domain.MediaKind, refs []string) ([]int, error)
	SendText(ctx context.Context, chatID int64, text string, kb *domain.Keyboard) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Navigator builds the keyboard shown under a rendered category.
type Navigator interface {
	Navigation(ctx context.Context, userID int64, c *domain.Category, children []domain.Category) domain.Keyboard
}

// Renderer replays a category to a user. Each render retires the user's
// previous render first and records its own messages for the next one.
type Renderer struct {
	categories CategoryStore
	traces     TraceStore
	platform   Platform
	nav        Navigator
}

func NewRenderer(categories CategoryStore, traces TraceStore, platform Platform, nav Navigator) *Renderer {
	return &Renderer{
		categories: categories,
		traces:     traces,
		platform:   platform,
		nav:        nav,
	}
}

// Render shows categoryID to userID in the user's private chat and returns the
// new render trace. Send failures for individual slots are replaced by an
// apology message; only a missing category or a failed caption message is
// returned as an error.
func (r *Renderer) Render(ctx context.Context, categoryID string, userID int64) ([]int, error) {
	c, err := r.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	children, err := r.categories.FindChildren(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}
	kb := r.nav.Navigation(ctx, userID, c, children)

	r.Retire(ctx, userID)

	chatID := userID
	var trace []int
	for _, kind := range c.PopulatedKinds() {
		trace = append(trace, r.emitSlot(ctx, chatID, kind, c.Slot(kind))...)
	}

	caption := c.CaptionText()
	if caption == "" {
		caption = CaptionPlaceholder
	}
	id, sendErr := r.platform.SendText(ctx, chatID, caption, &kb)
	if sendErr == nil {
		trace = append(trace, id)
	}

	if err := r.traces.SaveTrace(ctx, userID, trace); err != nil {
		return trace, fmt.Errorf("save render trace: %w", err)
	}
	if sendErr != nil {
		return trace, fmt.Errorf("send caption: %w", sendErr)
	}
	return trace, nil
}

// RenderText retires the user's last render and shows a single text message
// in its place, recording it as the new trace.
func (r *Renderer) RenderText(ctx context.Context, userID int64, text string, kb *domain.Keyboard) ([]int, error) {
	r.Retire(ctx, userID)

	var trace []int
	id, sendErr := r.platform.SendText(ctx, userID, text, kb)
	if sendErr == nil {
		trace = []int{id}
	}
	if err := r.traces.SaveTrace(ctx, userID, trace); err != nil {
		return trace, fmt.Errorf("save render trace: %w", err)
	}
	if sendErr != nil {
		return nil, fmt.Errorf("send text: %w", sendErr)
	}
	return trace, nil
}

// Retire deletes every message of the user's last render. Individual delete
// failures are expected (already deleted, too old) and ignored.
func (r *Renderer) Retire(ctx context.Context, userID int64) {
	previous, err := r.traces.LoadTrace(ctx, userID)
	if err != nil {
		slog.Warn("load render trace", "user_id", userID, "error", err)
		return
	}
	for _, id := range previous {
		if err := r.platform.DeleteMessage(ctx, userID, id); err != nil {
			slog.Debug("retire message", "user_id", userID, "message_id", id, "error", err)
		}
	}
}

func (r *Renderer) emitSlot(ctx context.Context, chatID int64, kind domain.MediaKind, item *domain.ContentItem) []int {
	if kind == domain.KindVoice && !item.IsBatch() {
		return r.emitVoice(ctx, chatID, item.Ref())
	}

	var ids []int
	var failed error
	if item.IsBatch() && kind.Groupable() {
		for _, chunk := range chunkRefs(item.Refs, config.MaxMediaGroupSize) {
			if len(chunk) == 1 {
				id, err := r.platform.SendMedia(ctx, chatID, kind, chunk[0])
				if err != nil {
					failed = errors.Join(failed, err)
					continue
				}
				ids = append(ids, id)
				continue
			}
			sent, err := r.platform.SendMediaGroup(ctx, chatID, kind, chunk)
			if err != nil {
				failed = errors.Join(failed, err)
				continue
			}
			ids = append(ids, sent...)
		}
	} else {
		for _, ref := range item.Refs {
			id, err := r.platform.SendMedia(ctx, chatID, kind, ref)
			if err != nil {
				failed = errors.Join(failed, err)
				continue
			}
			ids = append(ids, id)
		}
	}

	if failed != nil {
		slog.Warn("send slot", "chat_id", chatID, "kind", kind, "error", failed)
		if id, err := r.platform.SendText(ctx, chatID, ContentApology, nil); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// emitVoice tries a voice send, then a generic audio send of the same file,
// then settles for a text apology. Voice messages are refused when the
// recipient's privacy settings forbid them.
func (r *Renderer) emitVoice(ctx context.Context, chatID int64, ref string) []int {
	id, err := r.platform.SendMedia(ctx, chatID, domain.KindVoice, ref)
	if err == nil {
		return []int{id}
	}
	slog.Debug("voice send failed, trying audio", "chat_id", chatID, "error", err)

	id, err = r.platform.SendMedia(ctx, chatID, domain.KindAudio, ref)
	if err == nil {
		return []int{id}
	}
	slog.Debug("audio fallback failed, sending apology", "chat_id", chatID, "error", err)

	id, err = r.platform.SendText(ctx, chatID, VoiceApology, nil)
	if err != nil {
		slog.Warn("send voice apology", "chat_id", chatID, "error", err)
		return nil
	}
	return []int{id}
}

func chunkRefs(refs []string, size int) [][]string {
	var chunks [][]string
	for len(refs) > size {
		chunks = append(chunks, refs[:size])
		refs = refs[size:]
	}
	if len(refs) > 0 {
		chunks = append(chunks, refs)
	}
	return chunks
}
