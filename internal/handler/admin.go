package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/domain"
	"github.com/set-night/catalogbot/internal/middleware"
)

// StatsSource reports catalog totals for /stat.
type StatsSource interface {
	Stats(ctx context.Context, since time.Time) (domain.CatalogStats, error)
}

func (h *Handler) handleStat(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || !middleware.IsAdmin(ctx) || h.stats == nil {
		return
	}
	chatID := update.Message.Chat.ID

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := h.stats.Stats(ctx, todayStart)
	if err != nil {
		slog.Error("catalog stats", "error", err)
		h.sender.SendText(ctx, chatID, textSomethingWrong, nil)
		return
	}

	h.sender.SendText(ctx, chatID, formatStats(stats), nil)
}

func formatStats(stats domain.CatalogStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 <b>Статистика каталога</b>\n\n"+
		"📁 Категорий: %d\n"+
		"🌳 Корневых: %d\n"+
		"📝 С подписью: %d\n"+
		"🕒 Изменено сегодня: %d\n\n"+
		"<b>Контент:</b>\n",
		stats.Categories, stats.Roots, stats.WithCaption, stats.UpdatedSince)
	for _, k := range domain.RenderOrder {
		fmt.Fprintf(&sb, "%s: %d\n", slotTitles[k], stats.Slots[k])
	}
	return strings.TrimRight(sb.String(), "\n")
}
