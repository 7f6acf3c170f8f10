// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConflictField(t *testing.T) {
	tests := []struct {
		msg      string
		expected string
	}{
		{"constraint failed: UNIQUE constraint failed: users.email (2067)", "Email"},
		{"UNIQUE constraint failed: products.slug", "Slug"},
		{"UNIQUE constraint failed: accounts.provider, accounts.provider_account_id", "Provider"},
		{"UNIQUE constraint failed: verification_tokens.token", "Token"},
		{"something else", "Record"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.expected, conflictField(tt.msg))
		})
	}
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError(nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, wrapError(plain))
}

func TestConflictError(t *testing.T) {
	cause := errors.New("driver error")
	err := &ConflictError{Field: "Email", Err: cause}

	assert.Equal(t, "Email already exists", err.Error())
	assert.ErrorIs(t, err, cause)
}
