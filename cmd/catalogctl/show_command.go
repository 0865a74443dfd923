package main

import (
	"fmt"
	"strings"

	"github.com/set-night/catalogbot/internal/domain"
	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <category-id>",
		Short: "Print one category with its stored content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := ctx.categories(cmd.Context())
			if err != nil {
				return err
			}
			c, err := repo.FindByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("category %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeCategory(c))
			return nil
		},
	}
}

func describeCategory(c *domain.Category) string {
	var sb strings.Builder
	parent := "-"
	if c.ParentID != nil {
		parent = *c.ParentID
	}
	fmt.Fprintf(&sb, "%s  %s\nparent:  %s\nupdated: %s\ncaption: %s\n",
		c.ID, c.Name, parent, c.UpdatedAt.Format("2006-01-02 15:04:05"), orDash(c.CaptionText()))

	rows := make([][]string, 0, len(domain.RenderOrder))
	for _, k := range c.PopulatedKinds() {
		item := c.Slot(k)
		rows = append(rows, []string{string(k), string(item.Type), strings.Join(item.Refs, "\n")})
	}
	if len(rows) == 0 {
		sb.WriteString("no content")
		return sb.String()
	}
	sb.WriteString(renderTable([]string{"Slot", "Type", "References"}, rows))
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
