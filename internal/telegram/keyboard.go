package telegram

import (
	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/domain"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// URLButton creates a URL inline keyboard button.
func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text: text,
		URL:  url,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// InlineMarkup converts a platform-neutral keyboard. It returns nil for an
// empty keyboard so callers can leave ReplyMarkup unset.
func InlineMarkup(kb *domain.Keyboard) *models.InlineKeyboardMarkup {
	if kb.Empty() {
		return nil
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(kb.Rows))
	for _, r := range kb.Rows {
		row := make([]models.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			if b.URL != "" {
				row = append(row, URLButton(b.Text, b.URL))
			} else {
				row = append(row, InlineButton(b.Text, b.Data))
			}
		}
		rows = append(rows, ButtonRow(row...))
	}
	return InlineKeyboard(rows...)
}
