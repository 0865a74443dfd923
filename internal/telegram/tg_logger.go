package telegram

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/config"
)

// TelegramLogger mirrors notable events into topics of an admin log chat.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError   LogType = "error"
	LogTypeCatalog LogType = "catalog"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	// Truncate if too long
	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.TelegramLogTimeout)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       models.ParseModeHTML,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ <b>Error</b>\n\n<b>Context:</b> %s\n<b>Error:</b> <code>%s</code>\n<b>Time:</b> %s",
		html.EscapeString(context), html.EscapeString(err.Error()), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogCategoryCreated(adminID int64, id, name string) {
	msg := fmt.Sprintf("📁 <b>Category created</b>\n\n<b>Admin:</b> <code>%d</code>\n<b>ID:</b> <code>%s</code>\n<b>Name:</b> %s",
		adminID, html.EscapeString(id), html.EscapeString(name))
	l.Log(LogTypeCatalog, msg)
}

func (l *TelegramLogger) LogCategoryDeleted(adminID int64, id string) {
	msg := fmt.Sprintf("🗑 <b>Category deleted</b>\n\n<b>Admin:</b> <code>%d</code>\n<b>ID:</b> <code>%s</code>",
		adminID, html.EscapeString(id))
	l.Log(LogTypeCatalog, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeCatalog:
		return l.cfg.LogTopicCatalog
	default:
		return 0
	}
}
