package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/set-night/catalogbot/internal/config"
	"github.com/set-night/catalogbot/internal/domain"
)

// CategoryService owns the category tree: creating, renaming, deleting and
// cleaning nodes, and merging ingested content into their slots.
type CategoryService struct {
	store CategoryStore
	now   func() time.Time
	newID func() string
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{
		store: store,
		now:   time.Now,
		newID: randomCategoryID,
	}
}

func randomCategoryID() string {
	return uuid.NewString()[:config.CategoryIDLength]
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.store.FindByID(ctx, id)
}

func (s *CategoryService) Children(ctx context.Context, id string) ([]domain.Category, error) {
	return s.store.FindChildren(ctx, id)
}

// EnsureSection returns the root section with the given id, creating it on
// first access.
func (s *CategoryService) EnsureSection(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.store.FindByID(ctx, id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, fmt.Errorf("find section: %w", err)
	}

	now := s.now()
	c = &domain.Category{ID: id, Name: id, CreatedAt: now, UpdatedAt: now}
	if err := s.store.Insert(ctx, c); err != nil && !errors.Is(err, domain.ErrCategoryExists) {
		return nil, fmt.Errorf("insert section: %w", err)
	}
	slog.Info("section created", "id", id)
	return s.store.FindByID(ctx, id)
}

// Create adds a child under parentID, or a root when parentID is nil. The
// parent must exist, and the new node gets a fresh id, so the tree cannot
// gain a cycle through this path.
func (s *CategoryService) Create(ctx context.Context, parentID *string, name string) (*domain.Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if _, err := s.store.FindByID(ctx, *parentID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return nil, domain.ErrParentNotFound
			}
			return nil, fmt.Errorf("find parent: %w", err)
		}
	}

	now := s.now()
	for attempt := 0; attempt < config.CategoryIDAttempts; attempt++ {
		c := &domain.Category{
			ID:        s.newID(),
			ParentID:  parentID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := s.store.Insert(ctx, c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrCategoryExists) {
			return nil, fmt.Errorf("insert category: %w", err)
		}
	}
	return nil, fmt.Errorf("insert category: %w after %d attempts", domain.ErrCategoryExists, config.CategoryIDAttempts)
}

func (s *CategoryService) Rename(ctx context.Context, id, name string) (*domain.Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	upd := domain.CategoryUpdate{Name: &name, UpdatedAt: s.now()}
	return s.update(ctx, id, upd)
}

// Delete removes the category and, through the store, its subtree.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Clean empties one slot, or every slot and the caption when kind is empty.
func (s *CategoryService) Clean(ctx context.Context, id string, kind domain.MediaKind) (*domain.Category, error) {
	upd := domain.CategoryUpdate{
		Slots:     make(map[domain.MediaKind]*domain.ContentItem),
		UpdatedAt: s.now(),
	}
	if kind == "" {
		for _, k := range domain.RenderOrder {
			upd.Slots[k] = nil
		}
		upd.ClearCaption = true
	} else {
		if !kind.Valid() {
			return nil, fmt.Errorf("clean %q: %w", kind, domain.ErrUnsupportedContent)
		}
		upd.Slots[kind] = nil
	}
	return s.update(ctx, id, upd)
}

// Merge writes classified content into the category and returns the result.
//
// Captions overwrite. A batch replaces its slot. A single document appends to
// a non-empty document slot, promoting a bare reference to a batch first.
// Any other single item replaces its slot.
func (s *CategoryService) Merge(ctx context.Context, id string, content domain.Content) (*domain.Category, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	upd := domain.CategoryUpdate{UpdatedAt: s.now()}

	switch content.Type {
	case domain.ContentCaption:
		caption := content.Caption
		upd.Caption = &caption
	case domain.ContentMedia:
		if !content.Kind.Valid() || len(content.Refs) == 0 {
			return nil, domain.ErrUnsupportedContent
		}
		var item *domain.ContentItem
		existing := c.Slot(content.Kind)
		switch {
		case content.Batch:
			item = domain.Batch(content.Refs)
		case content.Kind == domain.KindDocument && existing != nil:
			refs := append(append([]string(nil), existing.Refs...), content.Refs[0])
			item = domain.Batch(refs)
		default:
			item = domain.Solo(content.Refs[0])
		}
		upd.Slots = map[domain.MediaKind]*domain.ContentItem{content.Kind: item}
	default:
		return nil, domain.ErrUnsupportedContent
	}

	if err := s.store.UpdateFields(ctx, id, upd); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	upd.Apply(c)
	return c, nil
}

func (s *CategoryService) update(ctx context.Context, id string, upd domain.CategoryUpdate) (*domain.Category, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateFields(ctx, id, upd); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	upd.Apply(c)
	return c, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyName
	}
	if utf8.RuneCountInString(name) > config.MaxCategoryNameLen {
		name = string([]rune(name)[:config.MaxCategoryNameLen])
	}
	return name, nil
}
