// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates renders the storefront pages as templ components. Every
// page is wrapped in the shared layout and escapes dynamic values with
// templ's escaping helpers.
package templates

import (
	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/models"
)

// SignInData feeds the sign-in form.
type SignInData struct {
	CallbackURL   string
	Email         string
	Error         string
	Notice        string
	GoogleEnabled bool
}

// SignUpData feeds both sign-up steps: requesting a verification link and,
// once verified, completing the account.
type SignUpData struct { //nolint:govet // fieldalignment not critical
	Email            string
	Verified         bool
	Name             string
	Phone            string
	MarketingConsent bool
	PasswordHints    []string
	Result           *apperr.Result
}

// VerifyEmailData carries the reason a verification link was rejected.
type VerifyEmailData struct {
	Error string // missing, invalid or expired
}

// ConsentData feeds the consent form.
type ConsentData struct {
	CallbackURL string
	Error       string
}

// ProfileData feeds the profile page.
type ProfileData struct {
	User           *models.User
	Phone          string
	Address        models.ShippingAddress
	PaymentMethods []string
	Result         *apperr.Result
}

// AdminUserData feeds the admin user form.
type AdminUserData struct {
	User   *models.User
	Roles  []string
	Result *apperr.Result
}
