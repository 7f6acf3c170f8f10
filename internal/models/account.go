// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Account links a user to a federated identity provider.
type Account struct { //nolint:govet // fieldalignment: readability over optimization
	ID                int64     `db:"id" json:"id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	Type              string    `db:"type" json:"type"`
	Provider          string    `db:"provider" json:"provider"`
	ProviderAccountID string    `db:"provider_account_id" json:"provider_account_id"`
	AccessToken       *string   `db:"access_token" json:"-"`
	RefreshToken      *string   `db:"refresh_token" json:"-"`
	ExpiresAt         *int64    `db:"expires_at" json:"-"` // unix seconds
	TokenType         *string   `db:"token_type" json:"-"`
	Scope             *string   `db:"scope" json:"-"`
	IDToken           *string   `db:"id_token" json:"-"`
	SessionState      *string   `db:"session_state" json:"-"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
