package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/domain"
)

// Sender is the chat platform boundary used by the renderer and handlers.
// Every failure it returns is a *domain.SendError.
type Sender struct {
	bot *bot.Bot
}

func NewSender(b *bot.Bot) *Sender {
	return &Sender{bot: b}
}

// SendMedia sends one stored media reference with the kind-specific method.
func (s *Sender) SendMedia(ctx context.Context, chatID int64, kind domain.MediaKind, ref string) (int, error) {
	file := &models.InputFileString{Data: ref}

	var (
		msg *models.Message
		err error
	)
	switch kind {
	case domain.KindPhoto:
		msg, err = s.bot.SendPhoto(ctx, &bot.SendPhotoParams{ChatID: chatID, Photo: file})
	case domain.KindVideo:
		msg, err = s.bot.SendVideo(ctx, &bot.SendVideoParams{ChatID: chatID, Video: file})
	case domain.KindAudio:
		msg, err = s.bot.SendAudio(ctx, &bot.SendAudioParams{ChatID: chatID, Audio: file})
	case domain.KindDocument:
		msg, err = s.bot.SendDocument(ctx, &bot.SendDocumentParams{ChatID: chatID, Document: file})
	case domain.KindVoice:
		msg, err = s.bot.SendVoice(ctx, &bot.SendVoiceParams{ChatID: chatID, Voice: file})
	case domain.KindVideoNote:
		msg, err = s.bot.SendVideoNote(ctx, &bot.SendVideoNoteParams{ChatID: chatID, VideoNote: file})
	default:
		return 0, &domain.SendError{Kind: domain.SendBadRequest, Err: fmt.Errorf("%w: kind %q", domain.ErrUnsupportedContent, kind)}
	}
	if err != nil {
		return 0, wrapSendError(err)
	}
	return msg.ID, nil
}

// SendMediaGroup sends refs as one album and returns the ids of its messages.
func (s *Sender) SendMediaGroup(ctx context.Context, chatID int64, kind domain.MediaKind, refs []string) ([]int, error) {
	media := make([]models.InputMedia, 0, len(refs))
	for _, ref := range refs {
		switch kind {
		case domain.KindPhoto:
			media = append(media, &models.InputMediaPhoto{Media: ref})
		case domain.KindVideo:
			media = append(media, &models.InputMediaVideo{Media: ref})
		case domain.KindAudio:
			media = append(media, &models.InputMediaAudio{Media: ref})
		case domain.KindDocument:
			media = append(media, &models.InputMediaDocument{Media: ref})
		default:
			return nil, &domain.SendError{Kind: domain.SendBadRequest, Err: fmt.Errorf("%w: %q in media group", domain.ErrUnsupportedContent, kind)}
		}
	}

	msgs, err := s.bot.SendMediaGroup(ctx, &bot.SendMediaGroupParams{
		ChatID: chatID,
		Media:  media,
	})
	if err != nil {
		return nil, wrapSendError(err)
	}

	ids := make([]int, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// SendText sends HTML text. Falls back to plain text if the HTML is rejected.
func (s *Sender) SendText(ctx context.Context, chatID int64, text string, kb *domain.Keyboard) (int, error) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup := InlineMarkup(kb); markup != nil {
		params.ReplyMarkup = markup
	}

	msg, err := s.bot.SendMessage(ctx, params)
	if err != nil && errors.Is(err, bot.ErrorBadRequest) {
		slog.Warn("html send failed, falling back to plain text", "error", err)
		params.ParseMode = ""
		params.Text = PlainText(text)
		msg, err = s.bot.SendMessage(ctx, params)
	}
	if err != nil {
		return 0, wrapSendError(err)
	}
	return msg.ID, nil
}

// EditText replaces the text and keyboard of a message.
func (s *Sender) EditText(ctx context.Context, chatID int64, messageID int, text string, kb *domain.Keyboard) error {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup := InlineMarkup(kb); markup != nil {
		params.ReplyMarkup = markup
	}

	_, err := s.bot.EditMessageText(ctx, params)
	if err != nil && errors.Is(err, bot.ErrorBadRequest) {
		params.ParseMode = ""
		params.Text = PlainText(text)
		_, err = s.bot.EditMessageText(ctx, params)
	}
	if err != nil {
		return wrapSendError(err)
	}
	return nil
}

func (s *Sender) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := s.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return wrapSendError(err)
	}
	return nil
}

// DeleteMessages deletes each message, ignoring individual failures.
func (s *Sender) DeleteMessages(ctx context.Context, chatID int64, messageIDs ...int) {
	for _, id := range messageIDs {
		if err := s.DeleteMessage(ctx, chatID, id); err != nil {
			slog.Debug("delete message", "chat_id", chatID, "message_id", id, "error", err)
		}
	}
}

func (s *Sender) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) {
	_, err := s.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		slog.Debug("answer callback", "error", err)
	}
}

func wrapSendError(err error) error {
	var tooMany *bot.TooManyRequestsError
	switch {
	case errors.As(err, &tooMany):
		return &domain.SendError{
			Kind:       domain.SendRateLimited,
			RetryAfter: time.Duration(tooMany.RetryAfter) * time.Second,
			Err:        err,
		}
	case errors.Is(err, bot.ErrorBadRequest):
		return &domain.SendError{Kind: domain.SendBadRequest, Err: err}
	case errors.Is(err, bot.ErrorForbidden):
		return &domain.SendError{Kind: domain.SendForbidden, Err: err}
	default:
		return &domain.SendError{Kind: domain.SendOther, Err: err}
	}
}
