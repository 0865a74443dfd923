package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/lmittmann/tint"
	catalogbot "github.com/set-night/catalogbot"
	"github.com/set-night/catalogbot/internal/cache"
	"github.com/set-night/catalogbot/internal/config"
	"github.com/set-night/catalogbot/internal/handler"
	"github.com/set-night/catalogbot/internal/middleware"
	"github.com/set-night/catalogbot/internal/repository"
	"github.com/set-night/catalogbot/internal/service"
	"github.com/set-night/catalogbot/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	slog.SetDefault(newLogger(cfg))

	// Setup error reporting
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			slog.Error("failed to init sentry", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	if err := repository.RunMigrations(cfg.DatabaseURL, catalogbot.MigrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	categories := repository.NewCategories(pool)

	// Render traces and the throttle live in Redis when configured
	var (
		traces service.TraceStore = repository.NewTraces(pool)
		guard  middleware.Guard
	)
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		traces = cache.NewTraces(rdb)
		guard = cache.NewThrottle(rdb, cfg.ThrottleWindow)
	} else {
		memGuard := middleware.NewMemoryGuard(cfg.ThrottleWindow, config.ThrottleCleanupInterval)
		defer memGuard.Stop()
		guard = memGuard
	}

	// Initialize services
	categoryService := service.NewCategoryService(categories)
	flows := service.NewFlowTracker(cfg.FlowTTL)
	albums := service.NewAggregator[*models.Message](cfg.AlbumWindow)

	for _, section := range config.Sections {
		if _, err := categoryService.EnsureSection(ctx, section); err != nil {
			slog.Error("failed to ensure section", "section", section, "error", err)
			os.Exit(1)
		}
	}

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.Album(albums, func(userID int64, mediaGroupID string) {
				flows.MarkCorrelation(userID, mediaGroupID)
			}),
			middleware.Throttle(guard),
			middleware.AdminLoader(cfg),
		),
		bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	sender := telegram.NewSender(b)
	nav := handler.NewNavigator(cfg)

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:        b,
		Cfg:        cfg,
		Categories: categoryService,
		Renderer:   service.NewRenderer(categories, traces, sender, nav),
		Flows:      flows,
		Sender:     sender,
		Stats:      categories,
		TgLogger:   telegram.NewTelegramLogger(b, cfg),
	})

	// Register all handlers
	h.Register()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID, "admins", cfg.AdminIDsString())
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

// newLogger builds a JSON logger, or a colored console logger for LOG_FORMAT=text.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == "text" {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.SlogLevel(),
			TimeFormat: time.TimeOnly,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}
