package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/catalogbot/internal/repository"
	"github.com/spf13/cobra"
)

type ctlConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

// commandContext lazily opens the database for subcommands that need it.
type commandContext struct {
	databaseURL *string
	pool        *pgxpool.Pool
}

func (c *commandContext) url() (string, error) {
	if *c.databaseURL != "" {
		return *c.databaseURL, nil
	}
	var cfg ctlConfig
	if err := env.Parse(&cfg); err != nil {
		return "", fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return "", errors.New("database url required: set --database-url or DATABASE_URL")
	}
	return cfg.DatabaseURL, nil
}

func (c *commandContext) categories(ctx context.Context) (*repository.Categories, error) {
	if c.pool == nil {
		url, err := c.url()
		if err != nil {
			return nil, err
		}
		pool, err := repository.NewPool(ctx, url)
		if err != nil {
			return nil, err
		}
		c.pool = pool
	}
	return repository.NewCategories(c.pool), nil
}

func (c *commandContext) close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

func newRootCommand() *cobra.Command {
	var databaseURL string
	ctx := &commandContext{databaseURL: &databaseURL}

	rootCmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Inspect and migrate the catalog bot database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default $DATABASE_URL)")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newTreeCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))

	return rootCmd
}
