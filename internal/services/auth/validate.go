// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"codeberg.org/oliverandrich/storefront/internal/apperr"
)

// Validation messages.
const (
	MsgInvalidEmail     = "Invalid email address"
	MsgNameTooShort     = "Name must be at least 3 characters"
	MsgPasswordMismatch = "Passwords don't match"
	MsgTermsRequired    = "You must agree to the terms and conditions"
)

// NormalizeEmail validates an address and returns it trimmed and lower-cased.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, ".") {
		return "", apperr.Validation(MsgInvalidEmail)
	}
	return email, nil
}

// ValidateName checks the minimum display name length.
func ValidateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < 3 {
		return apperr.Validation(MsgNameTooShort)
	}
	return nil
}

// SignUpForm is the sign-up form as submitted.
type SignUpForm struct {
	Name             string
	Email            string
	Phone            string
	Password         string
	ConfirmPassword  string
	TermsAgreed      bool
	MarketingConsent bool
}

// Validate checks the form and normalizes name and email in place.
// The first failing field determines the message.
func (f *SignUpForm) Validate(pv *PasswordValidator) error {
	if err := ValidateName(f.Name); err != nil {
		return err
	}
	f.Name = strings.TrimSpace(f.Name)

	email, err := NormalizeEmail(f.Email)
	if err != nil {
		return err
	}
	f.Email = email

	if res := pv.Validate(f.Password); !res.Valid {
		return apperr.Validation(res.Errors[0].Message)
	}
	if f.Password != f.ConfirmPassword {
		return apperr.Validation(MsgPasswordMismatch)
	}
	if !f.TermsAgreed {
		return apperr.Validation(MsgTermsRequired)
	}
	f.Phone = strings.TrimSpace(f.Phone)
	return nil
}
