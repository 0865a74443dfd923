package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/catalogbot/internal/service"
)

func messageUpdate(userID int64, msgID int, group string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:           msgID,
		From:         &models.User{ID: userID},
		Chat:         models.Chat{ID: userID},
		MediaGroupID: group,
	}}
}

func TestRecoverSwallowsPanic(t *testing.T) {
	h := Recover()(func(context.Context, *bot.Bot, *models.Update) {
		panic("boom")
	})
	h(context.Background(), nil, messageUpdate(1, 1, ""))
}

func TestAdminLoader(t *testing.T) {
	cfg := adminSet{7: true}
	var got []bool
	h := AdminLoader(cfg)(func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
		got = append(got, IsAdmin(ctx))
	})

	h(context.Background(), nil, messageUpdate(7, 1, ""))
	h(context.Background(), nil, messageUpdate(8, 2, ""))
	h(context.Background(), nil, &models.Update{CallbackQuery: &models.CallbackQuery{From: models.User{ID: 7}}})

	want := []bool{true, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: IsAdmin = %v, want %v", i, got[i], want[i])
		}
	}
}

type adminSet map[int64]bool

func (a adminSet) IsAdmin(id int64) bool { return a[id] }

func TestAlbumPassesSingleMessages(t *testing.T) {
	agg := service.NewAggregator[*models.Message](time.Hour)
	var got []*models.Message
	h := Album(agg, nil)(func(ctx context.Context, _ *bot.Bot, u *models.Update) {
		got = Messages(ctx, u)
	})

	h(context.Background(), nil, messageUpdate(1, 5, ""))
	if len(got) != 1 || got[0].ID != 5 {
		t.Errorf("Messages = %v", got)
	}
}

func TestAlbumCollectsGroup(t *testing.T) {
	agg := service.NewAggregator[*models.Message](100 * time.Millisecond)
	var calls atomic.Int32
	var marked sync.Map
	var mu sync.Mutex
	var got []*models.Message

	h := Album(agg, func(userID int64, group string) {
		marked.Store(group, userID)
	})(func(ctx context.Context, _ *bot.Bot, u *models.Update) {
		calls.Add(1)
		mu.Lock()
		got = Messages(ctx, u)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h(context.Background(), nil, messageUpdate(1, 10, "g"))
	}()
	deadline := time.Now().Add(time.Second)
	for agg.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h(context.Background(), nil, messageUpdate(1, 11, "g"))
	h(context.Background(), nil, messageUpdate(1, 12, "g"))
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("next called %d times, want once", calls.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 || got[0].ID != 10 || got[2].ID != 12 {
		t.Errorf("collected %d parts", len(got))
	}
	if v, ok := marked.Load("g"); !ok || v.(int64) != 1 {
		t.Error("onPart not called with the sender")
	}
}

func TestThrottle(t *testing.T) {
	guard := NewMemoryGuard(time.Minute, 0)
	defer guard.Stop()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	guard.now = func() time.Time { return now }

	var handled int
	h := Throttle(guard)(func(context.Context, *bot.Bot, *models.Update) { handled++ })

	h(context.Background(), nil, messageUpdate(1, 1, ""))
	h(context.Background(), nil, messageUpdate(1, 2, ""))
	h(context.Background(), nil, messageUpdate(2, 3, ""))
	if handled != 2 {
		t.Fatalf("handled = %d, want 2", handled)
	}

	now = now.Add(time.Minute)
	h(context.Background(), nil, messageUpdate(1, 4, ""))
	if handled != 3 {
		t.Errorf("handled = %d after the window, want 3", handled)
	}
}

func TestMemoryGuardSweep(t *testing.T) {
	guard := NewMemoryGuard(time.Second, 0)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	guard.now = func() time.Time { return now }

	guard.Allow(context.Background(), 1)
	now = now.Add(2 * time.Second)
	guard.sweep()

	guard.mu.Lock()
	defer guard.mu.Unlock()
	if len(guard.last) != 0 {
		t.Errorf("stale entries left: %v", guard.last)
	}
}
