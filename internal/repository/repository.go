// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/vinovest/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// ConflictError reports a violated unique constraint.
type ConflictError struct {
	Err   error
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Repository wraps sqlx for database operations
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

// New creates a new Repository instance
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// DB returns the underlying sqlx DB for direct access
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

func (r *Repository) timestamp() time.Time {
	return r.now().UTC()
}

// wrapError converts driver errors to repository errors
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &ConflictError{Field: conflictField(sqliteErr.Error()), Err: err}
		}
	}
	return err
}

// conflictField extracts the column from messages like
// "UNIQUE constraint failed: users.email".
func conflictField(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return "Record"
	}
	rest := msg[i+len(marker):]
	if i := strings.IndexAny(rest, " ,("); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndexByte(rest, '.'); i >= 0 {
		rest = rest[i+1:]
	}
	if rest == "" {
		return "Record"
	}
	return strings.ToUpper(rest[:1]) + strings.ReplaceAll(rest[1:], "_", " ")
}
