package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/set-night/catalogbot/internal/domain"
)

const testUser int64 = 42

func newTestRenderer(store *memStore) (*Renderer, *fakePlatform, *memTraces) {
	platform := newFakePlatform()
	traces := newMemTraces()
	return NewRenderer(store, traces, platform, staticNav{}), platform, traces
}

func sendKinds(calls []platformCall) []string {
	var out []string
	for _, c := range calls {
		switch c.Op {
		case "media", "group":
			out = append(out, string(c.Kind))
		case "text":
			out = append(out, "text")
		}
	}
	return out
}

func TestRenderFixedOrder(t *testing.T) {
	store := newMemStore(&domain.Category{ID: "c1", Slots: map[domain.MediaKind]*domain.ContentItem{
		domain.KindAudio:    domain.Solo("a"),
		domain.KindDocument: domain.Batch([]string{"d1", "d2"}),
		domain.KindPhoto:    domain.Solo("p"),
	}})
	r, platform, _ := newTestRenderer(store)

	trace, err := r.Render(context.Background(), "c1", testUser)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := []string{"photo", "document", "audio", "text"}
	if got := sendKinds(platform.recorded()); !reflect.DeepEqual(got, want) {
		t.Errorf("send order = %v, want %v", got, want)
	}
	// photo + two grouped documents + audio + caption
	if len(trace) != 5 {
		t.Errorf("trace = %v, want 5 ids", trace)
	}
}

func TestRenderBatchIsOneGroupedSend(t *testing.T) {
	store := newMemStore(&domain.Category{ID: "c1", Slots: map[domain.MediaKind]*domain.ContentItem{
		domain.KindPhoto: domain.Batch([]string{"p1", "p2", "p3"}),
	}})
	r, platform, _ := newTestRenderer(store)

	if _, err := r.Render(context.Background(), "c1", testUser); err != nil {
		t.Fatalf("Render: %v", err)
	}
	calls := platform.recorded()
	if calls[0].Op != "group" || !reflect.DeepEqual(calls[0].Refs, []string{"p1", "p2", "p3"}) {
		t.Errorf("first call = %+v, want one grouped send", calls[0])
	}
}

func TestRenderChunksLargeBatches(t *testing.T) {
	refs := make([]string, 21)
	for i := range refs {
		refs[i] = string(rune('a' + i))
	}
	store := newMemStore(&domain.Category{ID: "c1", Slots: map[domain.MediaKind]*domain.ContentItem{
		domain.KindDocument: domain.Batch(refs),
	}})
	r, platform, _ := newTestRenderer(store)

	trace, err := r.Render(context.Background(), "c1", testUser)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var ops []string
	for _, c := range platform.recorded() {
		ops = append(ops, c.Op)
	}
	if want := []string{"group", "group", "media", "text"}; !reflect.DeepEqual(ops, want) {
		t.Errorf("ops = %v, want %v", ops, want)
	}
	if len(trace) != 22 {
		t.Errorf("trace length = %d, want 22", len(trace))
	}
}

func TestRenderIdempotent(t *testing.T) {
	store := newMemStore(&domain.Category{ID: "c1", Slots: map[domain.MediaKind]*domain.ContentItem{
		domain.KindPhoto: domain.Solo("p"),
		domain.KindVideo: domain.Solo("v"),
	}})
	r, platform, traces := newTestRenderer(store)
	ctx := context.Background()

	first, err := r.Render(ctx, "c1", testUser)
	if err != nil {
		t.Fatalf("first Render: %v", err)
	}
	firstKinds := sendKinds(platform.recorded())
	platform.reset()

	second, err := r.Render(ctx, "c1", testUser)
	if err != nil {
		t.Fatalf("second Render: %v", err)
	}
	calls := platform.recorded()

	if len(first) != len(second) {
		t.Errorf("trace lengths differ: %d vs %d", len(first), len(second))
	}
	if got := sendKinds(calls); !reflect.DeepEqual(got, firstKinds) {
		t.Errorf("slot order changed: %v vs %v", got, firstKinds)
	}

	// every old id is deleted before any new send
	for i, id := range first {
		if calls[i].Op != "delete" || calls[i].ID != id {
			t.Fatalf("call %d = %+v, want delete of %d", i, calls[i], id)
		}
		if platform.isVisible(id) {
			t.Errorf("message %d still visible", id)
		}
	}

	saved, _ := traces.LoadTrace(ctx, testUser)
	if !reflect.DeepEqual(saved, second) {
		t.Errorf("saved trace = %v, want %v", saved, second)
	}
}

func TestRenderReplacedPhotoScenario(t *testing.T) {
	store := newMemStore(&domain.Category{ID: "c1", Name: "c1"})
	svc := newTestCategoryService(store)
	r, platform, _ := newTestRenderer(store)
	ctx := context.Background()

	if _, err := svc.Merge(ctx, "c1", media(domain.KindPhoto, false, "A")); err != nil {
		t.Fatalf("Merge A: %v", err)
	}
	first, err := r.Render(ctx, "c1", testUser)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first trace = %v, want photo + caption", first)
	}
	if calls := platform.recorded(); calls[1].Text != CaptionPlaceholder {
		t.Errorf("caption = %q, want placeholder", calls[1].Text)
	}

	c, err := svc.Merge(ctx, "c1", media(domain.KindPhoto, false, "B"))
	if err != nil {
		t.Fatalf("Merge B: %v", err)
	}
	if !reflect.DeepEqual(c.Slot(domain.KindPhoto), domain.Solo("B")) {
		t.Fatalf("photo slot = %+v", c.Slot(domain.KindPhoto))
	}

	platform.reset()
	second, err := r.Render(ctx, "c1", testUser)
	if err != nil {
		t.Fatalf("re-Render: %v", err)
	}
	if len(second) != 2 {
		t.Errorf("second trace = %v", second)
	}
	for _, id := range first {
		if platform.isVisible(id) {
			t.Errorf("old message %d still visible", id)
		}
	}
	for _, call := range platform.recorded() {
		if call.Op == "media" && call.Refs[0] != "B" {
			t.Errorf("sent %v, want B", call.Refs)
		}
	}
}

func TestRenderVoiceFallsBackToAudio(t *testing.T) {
	store := newMemStore(&domain.Category{ID: "c1", Slots: map[domain.MediaKind]*domain.ContentItem{
		domain.KindVoice: domain.Solo("vo"),
	}})
	r, platform, _ := newTestRenderer(store)
	platform.failOn[domain.KindVoice] = true

	trace, err := r.Render(context.Background(), "c1", testUser)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	calls := platform.recorded()
	if calls[0].Kind != domain.KindVoice || calls[1].Kind != domain.KindAudio || calls[1].Refs[0] != "vo" {
		t.Errorf("calls = %+v, want voice then audio of the same ref", calls[:2])
	}
	if len(trace) != 2 {
		t.Errorf("trace = %v", trace)
	}
}

func TestRenderVoiceApology(t *testing.T) {
	store := newMemStore(&domain.Category{ID: "c1", Slots: map[domain.MediaKind]*domain.ContentItem{
		domain.KindVoice: domain.Solo("vo"),
	}})
	r, platform, traces := newTestRenderer(store)
	platform.failOn[domain.KindVoice] = true
	platform.failOn[domain.KindAudio] = true

	trace, err := r.Render(context.Background(), "c1", testUser)
	if err != nil {
		t.Fatalf("Render should succeed, got %v", err)
	}

	var apologyID int
	var texts []string
	for _, c := range platform.recorded() {
		if c.Op == "text" {
			texts = append(texts, c.Text)
		}
	}
	if len(texts) != 2 || texts[0] != VoiceApology {
		t.Fatalf("texts = %v, want apology then caption", texts)
	}
	if len(trace) != 2 {
		t.Fatalf("trace = %v, want apology + caption", trace)
	}
	apologyID = trace[0]
	if !platform.isVisible(apologyID) {
		t.Error("apology should be visible")
	}
	saved, _ := traces.LoadTrace(context.Background(), testUser)
	if saved[0] != apologyID {
		t.Errorf("saved trace = %v, want apology id first", saved)
	}
}

func TestRenderSlotFailureSendsApology(t *testing.T) {
	store := newMemStore(&domain.Category{ID: "c1", Slots: map[domain.MediaKind]*domain.ContentItem{
		domain.KindPhoto: domain.Solo("p"),
		domain.KindVideo: domain.Solo("v"),
	}})
	r, platform, _ := newTestRenderer(store)
	platform.failOn[domain.KindPhoto] = true

	trace, err := r.Render(context.Background(), "c1", testUser)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []string{"photo", "text", "video", "text"}
	if got := sendKinds(platform.recorded()); !reflect.DeepEqual(got, want) {
		t.Errorf("sends = %v, want %v", got, want)
	}
	if len(trace) != 3 {
		t.Errorf("trace = %v", trace)
	}
}

func TestRenderNotFound(t *testing.T) {
	r, platform, _ := newTestRenderer(newMemStore())

	_, err := r.Render(context.Background(), "ghost", testUser)
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("err = %v, want ErrCategoryNotFound", err)
	}
	if len(platform.recorded()) != 0 {
		t.Error("nothing should be sent for an unknown category")
	}
}

func TestRenderSwallowsDeleteFailures(t *testing.T) {
	store := newMemStore(&domain.Category{ID: "c1"})
	r, _, traces := newTestRenderer(store)
	ctx := context.Background()
	_ = traces.SaveTrace(ctx, testUser, []int{1, 2, 3})

	trace, err := r.Render(ctx, "c1", testUser)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(trace) != 1 {
		t.Errorf("trace = %v, want caption only", trace)
	}
}

func TestChunkRefs(t *testing.T) {
	got := chunkRefs([]string{"a", "b", "c", "d", "e"}, 2)
	want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("chunkRefs = %v, want %v", got, want)
	}
	if chunkRefs(nil, 10) != nil {
		t.Error("empty input should yield no chunks")
	}
}

func TestRenderTextReplacesPreviousRender(t *testing.T) {
	store := newMemStore(&domain.Category{ID: "c1", Slots: map[domain.MediaKind]*domain.ContentItem{
		domain.KindPhoto: domain.Solo("p"),
	}})
	r, platform, traces := newTestRenderer(store)
	ctx := context.Background()

	first, err := r.Render(ctx, "c1", testUser)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	trace, err := r.RenderText(ctx, testUser, "menu", nil)
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	for _, id := range first {
		if platform.isVisible(id) {
			t.Errorf("message %d should be retired", id)
		}
	}
	saved, _ := traces.LoadTrace(ctx, testUser)
	if len(trace) != 1 || !reflect.DeepEqual(saved, trace) {
		t.Errorf("trace = %v, saved = %v", trace, saved)
	}
}
