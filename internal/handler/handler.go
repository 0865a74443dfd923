package handler

import (
	"github.com/go-telegram/bot"
	"github.com/set-night/catalogbot/internal/config"
	"github.com/set-night/catalogbot/internal/service"
	"github.com/set-night/catalogbot/internal/telegram"
)

// Handler holds all dependencies needed by command, callback and message handlers.
type Handler struct {
	bot        *bot.Bot
	cfg        *config.Config
	categories *service.CategoryService
	renderer   *service.Renderer
	flows      *service.FlowTracker
	sender     *telegram.Sender
	stats      StatsSource
	tgLogger   *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot        *bot.Bot
	Cfg        *config.Config
	Categories *service.CategoryService
	Renderer   *service.Renderer
	Flows      *service.FlowTracker
	Sender     *telegram.Sender
	Stats      StatsSource
	TgLogger   *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:        deps.Bot,
		cfg:        deps.Cfg,
		categories: deps.Categories,
		renderer:   deps.Renderer,
		flows:      deps.Flows,
		sender:     deps.Sender,
		stats:      deps.Stats,
		tgLogger:   deps.TgLogger,
	}
}
