package handler

import (
	"context"
	"slices"

	"github.com/set-night/catalogbot/internal/config"
	"github.com/set-night/catalogbot/internal/domain"
)

// Navigator builds the keyboard under a rendered category: one row per child,
// admin actions for administrators, then the way back.
type Navigator struct {
	isAdmin func(int64) bool
}

func NewNavigator(cfg interface{ IsAdmin(int64) bool }) *Navigator {
	return &Navigator{isAdmin: cfg.IsAdmin}
}

func (n *Navigator) Navigation(_ context.Context, userID int64, c *domain.Category, children []domain.Category) domain.Keyboard {
	var kb domain.Keyboard
	for _, ch := range children {
		kb.Row(domain.Button{Text: ch.Name, Data: cbCategory + ch.ID})
	}

	if n.isAdmin(userID) {
		kb.Row(domain.Button{Text: btnAdd, Data: cbCreate + c.ID})
		kb.Row(domain.Button{Text: btnContent, Data: cbUpload + c.ID})
		kb.Row(domain.Button{Text: btnRename, Data: cbRename + c.ID})
		kb.Row(domain.Button{Text: btnClean, Data: cbClean + c.ID})
		if !isSection(c) {
			kb.Row(domain.Button{Text: btnDelete, Data: cbDelete + c.ID})
		}
	}

	switch {
	case c.ParentID != nil:
		kb.Row(domain.Button{Text: btnBack, Data: cbCategory + *c.ParentID})
		kb.Row(domain.Button{Text: btnHome, Data: cbSection + config.SectionKnowledge})
	case isSection(c):
		kb.Row(domain.Button{Text: btnBack, Data: cbMenu})
	default:
		kb.Row(domain.Button{Text: btnBack, Data: cbSection + config.SectionKnowledge})
	}
	return kb
}

func isSection(c *domain.Category) bool {
	return c.IsRoot() && slices.Contains(config.Sections, c.ID)
}

// menuKeyboard lists the root sections.
func menuKeyboard() *domain.Keyboard {
	var kb domain.Keyboard
	for _, s := range config.Sections {
		kb.Row(domain.Button{Text: sectionTitles[s], Data: cbSection + s})
	}
	return &kb
}

// backKeyboard leads to parentID, or to the menu when there is no parent.
func backKeyboard(parentID *string) *domain.Keyboard {
	var kb domain.Keyboard
	if parentID == nil {
		kb.Row(domain.Button{Text: btnBack, Data: cbMenu})
	} else {
		kb.Row(domain.Button{Text: btnBack, Data: cbCategory + *parentID})
	}
	return &kb
}

// cleanKeyboard offers one button per populated slot, a full clean and a way back.
func cleanKeyboard(c *domain.Category) *domain.Keyboard {
	var kb domain.Keyboard
	for _, k := range c.PopulatedKinds() {
		kb.Row(domain.Button{Text: slotTitles[k], Data: cbCleanApply + c.ID + ":" + string(k)})
	}
	kb.Row(domain.Button{Text: btnCleanAll, Data: cbCleanApply + c.ID + ":" + cleanAllSlot})
	kb.Row(domain.Button{Text: btnBack, Data: cbCategory + c.ID})
	return &kb
}
