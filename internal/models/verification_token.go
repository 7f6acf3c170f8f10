// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// VerificationToken proves ownership of an email address.
// Only the SHA256 hash of the token is stored.
type VerificationToken struct {
	Identifier string    `db:"identifier" json:"identifier"`
	Token      string    `db:"token" json:"-"`
	Expires    time.Time `db:"expires" json:"expires"`
}

// Expired reports whether the token is no longer valid at now.
func (t *VerificationToken) Expired(now time.Time) bool {
	return t.Expires.Before(now)
}
