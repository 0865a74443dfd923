package handler

import (
	"github.com/set-night/catalogbot/internal/config"
	"github.com/set-night/catalogbot/internal/domain"
)

const (
	textMenu           = "👋 Добро пожаловать! Выберите раздел:"
	textNotFound       = "Категория не найдена"
	textAskName        = "Введите название категории:"
	textAskRename      = "Введите новое название категории:"
	textAskContent     = "Отправьте контент: фото, видео, документы, аудио, голосовое, кружок или текст подписи."
	textCreated        = "✅ Категория «%s» создана"
	textRenamed        = "✅ Категория переименована"
	textDeleted        = "🗑 Категория удалена"
	textCleanPick      = "Выберите контент для удаления:"
	textCleaned        = "Удаление прошло успешно"
	textEmptyName      = "Название не может быть пустым"
	textSomethingWrong = "❌ Что-то пошло не так, попробуйте ещё раз."
	textCancelled      = "🚫 Действие отменено"
	textNoFlow         = "Нечего отменять"

	btnBack      = "⬅️ Назад"
	btnHome      = "🏠 В начало"
	btnAdd       = "➕ Добавить категорию"
	btnContent   = "📎 Контент"
	btnRename    = "✏️ Переименовать"
	btnClean     = "🧹 Очистить"
	btnDelete    = "🗑 Удалить"
	btnCleanAll  = "Полная очистка"
	cleanAllSlot = "all"
)

var sectionTitles = map[string]string{
	config.SectionKnowledge: "📚 База знаний",
	config.SectionInfo:      "ℹ️ Информация",
	config.SectionContacts:  "📞 Контакты",
}

var slotTitles = map[domain.MediaKind]string{
	domain.KindPhoto:     "Фото",
	domain.KindVideo:     "Видео",
	domain.KindDocument:  "Документы",
	domain.KindAudio:     "Аудио",
	domain.KindVoice:     "Голосовые сообщения",
	domain.KindVideoNote: "Кружки",
}
