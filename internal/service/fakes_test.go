package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/set-night/catalogbot/internal/domain"
)

type memStore struct {
	mu         sync.Mutex
	categories map[string]*domain.Category
	updates    int
}

func newMemStore(cats ...*domain.Category) *memStore {
	s := &memStore{categories: make(map[string]*domain.Category)}
	for _, c := range cats {
		s.categories[c.ID] = c
	}
	return s
}

func cloneCategory(c *domain.Category) *domain.Category {
	cp := *c
	cp.Slots = make(map[domain.MediaKind]*domain.ContentItem, len(c.Slots))
	for k, v := range c.Slots {
		cp.Slots[k] = &domain.ContentItem{Type: v.Type, Refs: append([]string(nil), v.Refs...)}
	}
	return &cp
}

func (s *memStore) FindByID(_ context.Context, id string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return cloneCategory(c), nil
}

func (s *memStore) FindChildren(_ context.Context, parentID string) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Category
	for _, c := range s.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *cloneCategory(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) Insert(_ context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; ok {
		return domain.ErrCategoryExists
	}
	s.categories[c.ID] = cloneCategory(c)
	return nil
}

func (s *memStore) UpdateFields(_ context.Context, id string, upd domain.CategoryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	upd.Apply(c)
	s.updates++
	return nil
}

func (s *memStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.categories, id)
	for cid, c := range s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			delete(s.categories, cid)
		}
	}
	return nil
}

type memTraces struct {
	mu     sync.Mutex
	traces map[int64][]int
}

func newMemTraces() *memTraces {
	return &memTraces{traces: make(map[int64][]int)}
}

func (m *memTraces) LoadTrace(_ context.Context, userID int64) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.traces[userID]...), nil
}

func (m *memTraces) SaveTrace(_ context.Context, userID int64, ids []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traces[userID] = append([]int(nil), ids...)
	return nil
}

// platformCall is one recorded call on fakePlatform.
type platformCall struct {
	Op   string // media, group, text, delete
	Kind domain.MediaKind
	Refs []string
	Text string
	ID   int
}

// fakePlatform hands out increasing message ids and remembers which
// messages are still visible.
type fakePlatform struct {
	mu      sync.Mutex
	nextID  int
	calls   []platformCall
	visible map[int]bool
	failOn  map[domain.MediaKind]bool
	failAll bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{nextID: 100, visible: make(map[int]bool), failOn: make(map[domain.MediaKind]bool)}
}

func (p *fakePlatform) issue() int {
	p.nextID++
	p.visible[p.nextID] = true
	return p.nextID
}

func (p *fakePlatform) SendMedia(_ context.Context, _ int64, kind domain.MediaKind, ref string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, platformCall{Op: "media", Kind: kind, Refs: []string{ref}})
	if p.failAll || p.failOn[kind] {
		return 0, &domain.SendError{Kind: domain.SendBadRequest, Err: fmt.Errorf("%s rejected", kind)}
	}
	return p.issue(), nil
}

func (p *fakePlatform) SendMediaGroup(_ context.Context, _ int64, kind domain.MediaKind, refs []string) ([]int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, platformCall{Op: "group", Kind: kind, Refs: append([]string(nil), refs...)})
	if p.failAll || p.failOn[kind] {
		return nil, &domain.SendError{Kind: domain.SendBadRequest, Err: fmt.Errorf("%s group rejected", kind)}
	}
	ids := make([]int, len(refs))
	for i := range refs {
		ids[i] = p.issue()
	}
	return ids, nil
}

func (p *fakePlatform) SendText(_ context.Context, _ int64, text string, _ *domain.Keyboard) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, platformCall{Op: "text", Text: text})
	return p.issue(), nil
}

func (p *fakePlatform) DeleteMessage(_ context.Context, _ int64, id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, platformCall{Op: "delete", ID: id})
	if !p.visible[id] {
		return &domain.SendError{Kind: domain.SendBadRequest, Err: fmt.Errorf("message %d not found", id)}
	}
	delete(p.visible, id)
	return nil
}

func (p *fakePlatform) recorded() []platformCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]platformCall(nil), p.calls...)
}

func (p *fakePlatform) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}

func (p *fakePlatform) isVisible(id int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible[id]
}

type staticNav struct{}

func (staticNav) Navigation(_ context.Context, _ int64, c *domain.Category, children []domain.Category) domain.Keyboard {
	var kb domain.Keyboard
	for _, ch := range children {
		kb.Row(domain.Button{Text: ch.Name, Data: "cat:" + ch.ID})
	}
	return kb
}
