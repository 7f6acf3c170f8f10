// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/storefront/internal/models"
)

// UpsertAccount links a provider account to a user. An existing link for
// the same (provider, provider_account_id) gets its tokens refreshed.
func (r *Repository) UpsertAccount(ctx context.Context, account *models.Account) error {
	now := r.timestamp()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, type, provider, provider_account_id, access_token, refresh_token,
			expires_at, token_type, scope, id_token, session_state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider, provider_account_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = COALESCE(excluded.refresh_token, accounts.refresh_token),
			expires_at = excluded.expires_at,
			token_type = excluded.token_type,
			scope = excluded.scope,
			id_token = excluded.id_token,
			session_state = excluded.session_state,
			updated_at = excluded.updated_at`,
		account.UserID, account.Type, account.Provider, account.ProviderAccountID,
		account.AccessToken, account.RefreshToken, account.ExpiresAt, account.TokenType,
		account.Scope, account.IDToken, account.SessionState, now, now)
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// GetAccount retrieves the link for a provider account.
func (r *Repository) GetAccount(ctx context.Context, provider, providerAccountID string) (*models.Account, error) {
	var account models.Account
	err := r.db.GetContext(ctx, &account,
		`SELECT * FROM accounts WHERE provider = ? AND provider_account_id = ?`,
		provider, providerAccountID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &account, nil
}

// ListAccountsByUserID returns all provider links of a user.
func (r *Repository) ListAccountsByUserID(ctx context.Context, userID int64) ([]models.Account, error) {
	accounts := []models.Account{}
	err := r.db.SelectContext(ctx, &accounts,
		`SELECT * FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
