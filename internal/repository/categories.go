package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/catalogbot/internal/domain"
)

const uniqueViolation = "23505"

// slotColumns maps each media kind to its jsonb column, in render order.
var slotColumns = []struct {
	kind   domain.MediaKind
	column string
}{
	{domain.KindPhoto, "photo"},
	{domain.KindVideo, "video"},
	{domain.KindDocument, "document"},
	{domain.KindAudio, "audio"},
	{domain.KindVoice, "voice"},
	{domain.KindVideoNote, "video_note"},
}

const selectCategory = `SELECT id, parent_id, name, caption, photo, video, document, audio, voice, video_note, created_at, updated_at FROM categories`

// Categories is the Postgres category store.
type Categories struct {
	pool *pgxpool.Pool
}

func NewCategories(pool *pgxpool.Pool) *Categories {
	return &Categories{pool: pool}
}

func (r *Categories) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, selectCategory+` WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select category %s: %w", id, err)
	}
	return c, nil
}

func (r *Categories) FindChildren(ctx context.Context, parentID string) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, selectCategory+` WHERE parent_id = $1 ORDER BY created_at, id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("select children of %s: %w", parentID, err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// FindRoots lists categories without a parent.
func (r *Categories) FindRoots(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, selectCategory+` WHERE parent_id IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select roots: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan root: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *Categories) Insert(ctx context.Context, c *domain.Category) error {
	slots := make([]any, len(slotColumns))
	for i, sc := range slotColumns {
		v, err := encodeSlot(c.Slot(sc.kind))
		if err != nil {
			return err
		}
		slots[i] = v
	}

	args := append([]any{c.ID, c.ParentID, c.Name, c.Caption}, slots...)
	args = append(args, c.CreatedAt, c.UpdatedAt)

	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, parent_id, name, caption, photo, video, document, audio, voice, video_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrCategoryExists
		}
		return fmt.Errorf("insert category %s: %w", c.ID, err)
	}
	return nil
}

// UpdateFields writes only the fields named by upd in one statement.
func (r *Categories) UpdateFields(ctx context.Context, id string, upd domain.CategoryUpdate) error {
	query, args, err := buildUpdate(id, upd)
	if err != nil {
		return err
	}
	if query == "" {
		return nil
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update category %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// DeleteByID removes the category. Descendants go with it via ON DELETE CASCADE.
func (r *Categories) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func buildUpdate(id string, upd domain.CategoryUpdate) (string, []any, error) {
	var sets []string
	var args []any
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.ClearCaption {
		set("caption", nil)
	} else if upd.Caption != nil {
		set("caption", *upd.Caption)
	}
	for _, sc := range slotColumns {
		item, ok := upd.Slots[sc.kind]
		if !ok {
			continue
		}
		v, err := encodeSlot(item)
		if err != nil {
			return "", nil, err
		}
		set(sc.column, v)
	}
	if len(sets) == 0 {
		return "", nil, nil
	}
	if !upd.UpdatedAt.IsZero() {
		set("updated_at", upd.UpdatedAt)
	} else {
		sets = append(sets, "updated_at = now()")
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE categories SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args, nil
}

// encodeSlot returns nil for an empty slot so the column reads as SQL NULL.
func encodeSlot(item *domain.ContentItem) ([]byte, error) {
	if item.Empty() {
		return nil, nil
	}
	b, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode slot: %w", err)
	}
	return b, nil
}

func decodeSlot(raw []byte) (*domain.ContentItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var item domain.ContentItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode slot: %w", err)
	}
	if item.Empty() {
		return nil, nil
	}
	return &item, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	raw := make([][]byte, len(slotColumns))
	dest := []any{&c.ID, &c.ParentID, &c.Name, &c.Caption}
	for i := range raw {
		dest = append(dest, &raw[i])
	}
	dest = append(dest, &c.CreatedAt, &c.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	c.Slots = make(map[domain.MediaKind]*domain.ContentItem)
	for i, sc := range slotColumns {
		item, err := decodeSlot(raw[i])
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", c.ID, sc.column, err)
		}
		if item != nil {
			c.Slots[sc.kind] = item
		}
	}
	return &c, nil
}

// Stats counts categories, captions and populated slots. UpdatedSince counts
// categories changed at or after since.
func (r *Categories) Stats(ctx context.Context, since time.Time) (domain.CatalogStats, error) {
	stats := domain.CatalogStats{Slots: make(map[domain.MediaKind]int)}

	counts := make([]any, 0, 4+len(slotColumns))
	counts = append(counts, &stats.Categories, &stats.Roots, &stats.WithCaption, &stats.UpdatedSince)
	slotCounts := make([]int, len(slotColumns))
	cols := make([]string, len(slotColumns))
	for i, sc := range slotColumns {
		counts = append(counts, &slotCounts[i])
		cols[i] = fmt.Sprintf("count(%s)", sc.column)
	}

	query := `SELECT count(*), count(*) FILTER (WHERE parent_id IS NULL), count(caption),
		count(*) FILTER (WHERE updated_at >= $1), ` + strings.Join(cols, ", ") + ` FROM categories`
	if err := r.pool.QueryRow(ctx, query, since).Scan(counts...); err != nil {
		return stats, fmt.Errorf("count categories: %w", err)
	}
	for i, sc := range slotColumns {
		stats.Slots[sc.kind] = slotCounts[i]
	}
	return stats, nil
}
