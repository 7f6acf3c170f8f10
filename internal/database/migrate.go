// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return fn()
}

// RunMigrations runs all pending goose migrations.
func RunMigrations(db *sql.DB) error {
	return withGoose(func() error {
		return goose.Up(db, "migrations")
	})
}

// MigrateDown rolls back the last migration.
func MigrateDown(db *sql.DB) error {
	return withGoose(func() error {
		return goose.Down(db, "migrations")
	})
}

// MigrateReset rolls back all migrations.
func MigrateReset(db *sql.DB) error {
	return withGoose(func() error {
		return goose.Reset(db, "migrations")
	})
}
