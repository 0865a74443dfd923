package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Guard decides whether a user's update may be handled now.
type Guard interface {
	Allow(ctx context.Context, userID int64) bool
}

// Throttle returns middleware that drops updates from a user arriving within
// the guard's window of the previous accepted one. Callback queries are
// answered so the client stops its spinner.
func Throttle(guard Guard) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			userID := userIDOf(update)
			if userID == 0 || guard.Allow(ctx, userID) {
				next(ctx, b, update)
				return
			}

			slog.Debug("throttled", "user_id", userID, "type", updateType(update))
			if update.CallbackQuery != nil && b != nil {
				b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
					CallbackQueryID: update.CallbackQuery.ID,
				})
			}
		}
	}
}

// MemoryGuard is an in-process Guard. Stale entries are swept periodically
// until Stop is called.
type MemoryGuard struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	last map[int64]time.Time
	stop chan struct{}
	once sync.Once
}

func NewMemoryGuard(window, cleanupInterval time.Duration) *MemoryGuard {
	g := &MemoryGuard{
		window: window,
		now:    time.Now,
		last:   make(map[int64]time.Time),
		stop:   make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go g.cleanupLoop(cleanupInterval)
	}
	return g
}

func (g *MemoryGuard) Allow(_ context.Context, userID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.last[userID]; ok && now.Sub(last) < g.window {
		return false
	}
	g.last[userID] = now
	return true
}

func (g *MemoryGuard) Stop() {
	g.once.Do(func() { close(g.stop) })
}

func (g *MemoryGuard) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

func (g *MemoryGuard) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	for id, last := range g.last {
		if now.Sub(last) >= g.window {
			delete(g.last, id)
		}
	}
}
