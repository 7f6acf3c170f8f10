// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/models"
)

// CreateVerificationToken stores a hashed verification token.
func (r *Repository) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO verification_tokens (identifier, token, expires) VALUES (?, ?, ?)`,
		token.Identifier, token.Token, token.Expires.UTC())
	return wrapError(err)
}

// GetVerificationToken retrieves a token by its hash.
func (r *Repository) GetVerificationToken(ctx context.Context, tokenHash string) (*models.VerificationToken, error) {
	var token models.VerificationToken
	err := r.db.GetContext(ctx, &token,
		`SELECT identifier, token, expires FROM verification_tokens WHERE token = ?`, tokenHash)
	if err != nil {
		return nil, wrapError(err)
	}
	return &token, nil
}

// DeleteVerificationToken removes a single token and reports whether this
// call removed it. Concurrent callers racing for the same token see exactly
// one true.
func (r *Repository) DeleteVerificationToken(ctx context.Context, identifier, tokenHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM verification_tokens WHERE identifier = ? AND token = ?`, identifier, tokenHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteVerificationTokens removes every token issued for identifier.
func (r *Repository) DeleteVerificationTokens(ctx context.Context, identifier string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE identifier = ?`, identifier)
	return err
}

// DeleteExpiredVerificationTokens removes tokens that expired before now.
func (r *Repository) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE expires < ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
