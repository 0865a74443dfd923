package domain

import "time"

// MediaKind is the closed set of content slot kinds a category can hold.
type MediaKind string

const (
	KindPhoto     MediaKind = "photo"
	KindVideo     MediaKind = "video"
	KindAudio     MediaKind = "audio"
	KindDocument  MediaKind = "document"
	KindVoice     MediaKind = "voice"
	KindVideoNote MediaKind = "video_note"
)

// RenderOrder is the fixed order in which populated slots are sent.
var RenderOrder = []MediaKind{KindPhoto, KindVideo, KindDocument, KindAudio, KindVoice, KindVideoNote}

func ParseMediaKind(s string) (MediaKind, bool) {
	k := MediaKind(s)
	return k, k.Valid()
}

func (k MediaKind) Valid() bool {
	switch k {
	case KindPhoto, KindVideo, KindAudio, KindDocument, KindVoice, KindVideoNote:
		return true
	}
	return false
}

// Groupable reports whether the platform can deliver this kind in a grouped send.
func (k MediaKind) Groupable() bool {
	switch k {
	case KindPhoto, KindVideo, KindAudio, KindDocument:
		return true
	}
	return false
}

type ItemType string

const (
	ItemSolo  ItemType = "solo"
	ItemBatch ItemType = "batch"
)

// ContentItem is the single value held by a content slot: one bare media
// reference or an ordered batch of them. References are platform file ids
// and are never interpreted.
type ContentItem struct {
	Type ItemType `json:"type"`
	Refs []string `json:"refs"`
}

func Solo(ref string) *ContentItem {
	return &ContentItem{Type: ItemSolo, Refs: []string{ref}}
}

func Batch(refs []string) *ContentItem {
	cp := make([]string, len(refs))
	copy(cp, refs)
	return &ContentItem{Type: ItemBatch, Refs: cp}
}

func (c *ContentItem) IsBatch() bool {
	return c != nil && c.Type == ItemBatch
}

// Ref returns the first reference, which is the whole payload of a solo item.
func (c *ContentItem) Ref() string {
	if c == nil || len(c.Refs) == 0 {
		return ""
	}
	return c.Refs[0]
}

func (c *ContentItem) Empty() bool {
	return c == nil || len(c.Refs) == 0
}

type Category struct {
	ID        string
	ParentID  *string
	Name      string
	Caption   *string
	Slots     map[MediaKind]*ContentItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func (c *Category) Slot(kind MediaKind) *ContentItem {
	if c.Slots == nil {
		return nil
	}
	item := c.Slots[kind]
	if item.Empty() {
		return nil
	}
	return item
}

// PopulatedKinds lists the non-empty slots in render order.
func (c *Category) PopulatedKinds() []MediaKind {
	var kinds []MediaKind
	for _, k := range RenderOrder {
		if c.Slot(k) != nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (c *Category) CaptionText() string {
	if c.Caption == nil {
		return ""
	}
	return *c.Caption
}

// CategoryUpdate is a partial write. Nil pointers leave a field untouched;
// a slot present in Slots with a nil item is cleared.
type CategoryUpdate struct {
	Name         *string
	Caption      *string
	ClearCaption bool
	Slots        map[MediaKind]*ContentItem
	UpdatedAt    time.Time
}

func (u CategoryUpdate) Apply(c *Category) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.ClearCaption {
		c.Caption = nil
	} else if u.Caption != nil {
		caption := *u.Caption
		c.Caption = &caption
	}
	if len(u.Slots) > 0 && c.Slots == nil {
		c.Slots = make(map[MediaKind]*ContentItem)
	}
	for k, item := range u.Slots {
		if item.Empty() {
			delete(c.Slots, k)
			continue
		}
		c.Slots[k] = &ContentItem{Type: item.Type, Refs: append([]string(nil), item.Refs...)}
	}
	if !u.UpdatedAt.IsZero() {
		c.UpdatedAt = u.UpdatedAt
	}
}

// CatalogStats summarizes the stored tree.
type CatalogStats struct {
	Categories   int
	Roots        int
	WithCaption  int
	UpdatedSince int
	Slots        map[MediaKind]int
}
