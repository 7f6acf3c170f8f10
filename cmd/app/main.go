// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"codeberg.org/oliverandrich/storefront/internal/catalog"
	"codeberg.org/oliverandrich/storefront/internal/config"
	"codeberg.org/oliverandrich/storefront/internal/database"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"codeberg.org/oliverandrich/storefront/internal/server"
	"codeberg.org/oliverandrich/storefront/internal/services/auth"
	"codeberg.org/oliverandrich/storefront/internal/services/session"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "app",
		Usage:   "Storefront web shop",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg := config.NewFromCLI(cmd)
			server.SetupLogger(cfg.Log.Level, cfg.Log.Format)
			return ctx, nil
		},
		Action: server.Run,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server (default)",
				Action: server.Run,
			},
			{
				Name:   "seed",
				Usage:  "Replace all products with the sample catalog",
				Action: withDatabase(seed),
			},
			{
				Name:  "migrate",
				Usage: "Manage database migrations",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Action: withDatabase(func(context.Context, *cli.Command, *sqlx.DB) error { return nil }),
					},
					{
						Name:   "down",
						Usage:  "Roll back the last migration",
						Action: withDatabase(func(_ context.Context, _ *cli.Command, db *sqlx.DB) error { return database.MigrateDown(db.DB) }),
					},
					{
						Name:   "reset",
						Usage:  "Roll back all migrations",
						Action: withDatabase(func(_ context.Context, _ *cli.Command, db *sqlx.DB) error { return database.MigrateReset(db.DB) }),
					},
				},
			},
			{
				Name:      "make-admin",
				Usage:     "Grant the admin role to an existing user",
				ArgsUsage: "<email>",
				Action:    withDatabase(makeAdmin),
			},
			{
				Name:   "keys",
				Usage:  "Print freshly generated secrets for the environment",
				Action: printKeys,
			},
		},
	}
}

// withDatabase opens the configured database, which applies pending
// migrations, and closes it after fn returns.
func withDatabase(fn func(ctx context.Context, cmd *cli.Command, db *sqlx.DB) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.NewFromCLI(cmd)
		db, err := database.Open(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("failed to close database", "error", closeErr)
			}
		}()
		return fn(ctx, cmd, db)
	}
}

func seed(ctx context.Context, _ *cli.Command, db *sqlx.DB) error {
	products, err := catalog.SampleProducts()
	if err != nil {
		return err
	}
	return catalog.Seed(ctx, repository.New(db), products)
}

func makeAdmin(ctx context.Context, cmd *cli.Command, db *sqlx.DB) error {
	email := cmd.Args().First()
	if email == "" {
		return errors.New("usage: app make-admin <email>")
	}
	if err := auth.NewService(repository.New(db), nil, nil).MakeAdmin(ctx, email); err != nil {
		return err
	}
	slog.Info("admin_granted", "email", email)
	return nil
}

// printKeys writes one random key per secret setting in env file syntax.
func printKeys(_ context.Context, cmd *cli.Command) error {
	for _, name := range []string{"SESSION_HASH_KEY", "SESSION_BLOCK_KEY", "ENCRYPTION_KEY"} {
		key, err := session.GenerateKey()
		if err != nil {
			return fmt.Errorf("generating %s: %w", name, err)
		}
		if _, err := fmt.Fprintf(cmd.Root().Writer, "%s=%s\n", name, key); err != nil {
			return err
		}
	}
	return nil
}
