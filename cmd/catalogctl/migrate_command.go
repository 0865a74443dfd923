package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	catalogbot "github.com/set-night/catalogbot"
	"github.com/set-night/catalogbot/internal/repository"
	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	run := func(apply func(m *migrate.Migrate) error) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			url, err := ctx.url()
			if err != nil {
				return err
			}
			m, err := repository.NewMigrator(url, catalogbot.MigrationsFS)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := apply(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return err
			}
			return printVersion(cmd, m)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  run(func(m *migrate.Migrate) error { return m.Up() }),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE:  run(func(m *migrate.Migrate) error { return m.Steps(-1) }),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE:  run(func(*migrate.Migrate) error { return nil }),
	})

	return cmd
}

func printVersion(cmd *cobra.Command, m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
	return nil
}
