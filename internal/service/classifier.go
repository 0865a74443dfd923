package service

import (
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/domain"
	tg "github.com/set-night/catalogbot/internal/telegram"
)

// Classify decides once what an incoming message or aggregated batch is.
// A text-only single message is a caption update. Media messages map to a
// slot kind; a batch takes the kind of its first part and must be
// homogeneous. Anything else is domain.ErrUnsupportedContent.
func Classify(msgs []*models.Message) (domain.Content, error) {
	if len(msgs) == 0 || msgs[0] == nil {
		return domain.Content{}, domain.ErrUnsupportedContent
	}

	first := msgs[0]
	ids := messageIDs(msgs)
	batched := first.MediaGroupID != "" || len(msgs) > 1

	kind, ref, ok := mediaOf(first)
	if !ok {
		if !batched && first.Text != "" {
			return domain.Content{
				Type:       domain.ContentCaption,
				Caption:    tg.EntitiesToHTML(first.Text, first.Entities),
				MessageIDs: ids,
			}, nil
		}
		return domain.Content{}, domain.ErrUnsupportedContent
	}

	if !batched {
		return domain.Content{
			Type:       domain.ContentMedia,
			Kind:       kind,
			Refs:       []string{ref},
			MessageIDs: ids,
		}, nil
	}

	if !kind.Groupable() {
		return domain.Content{}, fmt.Errorf("%w: %s cannot be grouped", domain.ErrUnsupportedContent, kind)
	}

	refs := make([]string, 0, len(msgs))
	for _, m := range msgs {
		k, r, ok := mediaOf(m)
		if !ok || k != kind {
			slog.Warn("mixed media batch", "media_group_id", first.MediaGroupID, "first_kind", kind, "kind", k)
			return domain.Content{}, fmt.Errorf("%w: %w", domain.ErrUnsupportedContent, domain.ErrMixedBatch)
		}
		refs = append(refs, r)
	}

	return domain.Content{
		Type:       domain.ContentMedia,
		Kind:       kind,
		Refs:       refs,
		Batch:      true,
		MessageIDs: ids,
	}, nil
}

// mediaOf reports the slot kind and file id carried by a message. Photos use
// the largest size. A document wins over the other kinds because animations
// arrive with a document attached.
func mediaOf(m *models.Message) (domain.MediaKind, string, bool) {
	if m == nil {
		return "", "", false
	}
	switch {
	case len(m.Photo) > 0:
		return domain.KindPhoto, m.Photo[len(m.Photo)-1].FileID, true
	case m.Document != nil:
		return domain.KindDocument, m.Document.FileID, true
	case m.Video != nil:
		return domain.KindVideo, m.Video.FileID, true
	case m.Audio != nil:
		return domain.KindAudio, m.Audio.FileID, true
	case m.Voice != nil:
		return domain.KindVoice, m.Voice.FileID, true
	case m.VideoNote != nil:
		return domain.KindVideoNote, m.VideoNote.FileID, true
	}
	return "", "", false
}

func messageIDs(msgs []*models.Message) []int {
	ids := make([]int, 0, len(msgs))
	for _, m := range msgs {
		if m != nil {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
