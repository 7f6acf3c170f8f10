// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"strings"
	"time"
)

// Roles known to the storefront.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultName is stored for accounts created without a display name.
const DefaultName = "NO_NAME"

// User is a storefront customer or administrator.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID                 int64      `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       *string    `db:"password_hash" json:"-"` // nil for OAuth-only accounts
	Role               string     `db:"role" json:"role"`
	Phone              *string    `db:"phone" json:"-"`   // AES-GCM ciphertext
	Address            *string    `db:"address" json:"-"` // JSON encoded ShippingAddress
	PaymentMethod      *string    `db:"payment_method" json:"payment_method,omitempty"`
	TermsAgreed        bool       `db:"terms_agreed" json:"terms_agreed"`
	TermsAgreedAt      *time.Time `db:"terms_agreed_at" json:"terms_agreed_at,omitempty"`
	MarketingConsent   bool       `db:"marketing_consent" json:"marketing_consent"`
	MarketingConsentAt *time.Time `db:"marketing_consent_at" json:"marketing_consent_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword reports whether the user can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// DisplayName returns the name, or the email local part for unnamed users.
func (u *User) DisplayName() string {
	if u.Name != "" && u.Name != DefaultName {
		return u.Name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// ShippingAddress is stored as JSON on the user row.
type ShippingAddress struct {
	FullName      string `json:"fullName"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
}
