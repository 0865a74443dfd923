package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/set-night/catalogbot/internal/domain"
	"github.com/spf13/cobra"
)

// treeSource is the read side of the category store.
type treeSource interface {
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindChildren(ctx context.Context, parentID string) ([]domain.Category, error)
	FindRoots(ctx context.Context) ([]domain.Category, error)
}

func newTreeCommand(ctx *commandContext) *cobra.Command {
	var rootID string
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the category tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := ctx.categories(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := treeRows(cmd.Context(), repo, rootID, maxDepth)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Content", "Caption"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&rootID, "root", "", "Start from this category instead of the roots")
	cmd.Flags().IntVar(&maxDepth, "depth", 0, "Maximum depth to descend (0 = unlimited)")
	return cmd
}

// treeRows walks the tree depth first, indenting names by level.
func treeRows(ctx context.Context, src treeSource, rootID string, maxDepth int) ([][]string, error) {
	var start []domain.Category
	if rootID == "" {
		roots, err := src.FindRoots(ctx)
		if err != nil {
			return nil, err
		}
		start = roots
	} else {
		c, err := src.FindByID(ctx, rootID)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", rootID, err)
		}
		start = []domain.Category{*c}
	}

	var rows [][]string
	var walk func(cats []domain.Category, depth int) error
	walk = func(cats []domain.Category, depth int) error {
		for i := range cats {
			c := &cats[i]
			rows = append(rows, []string{
				c.ID,
				strings.Repeat("  ", depth) + c.Name,
				slotSummary(c),
				captionMark(c),
			})
			if maxDepth > 0 && depth+1 >= maxDepth {
				continue
			}
			children, err := src.FindChildren(ctx, c.ID)
			if err != nil {
				return err
			}
			if err := walk(children, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(start, 0); err != nil {
		return nil, err
	}
	return rows, nil
}

// slotSummary lists populated slots with their reference counts, e.g. "photo×1 document×3".
func slotSummary(c *domain.Category) string {
	var parts []string
	for _, k := range c.PopulatedKinds() {
		parts = append(parts, string(k)+"×"+strconv.Itoa(len(c.Slot(k).Refs)))
	}
	return strings.Join(parts, " ")
}

func captionMark(c *domain.Category) string {
	if c.CaptionText() == "" {
		return "-"
	}
	return "yes"
}
