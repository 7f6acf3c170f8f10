// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"fmt"
	"unicode/utf8"
)

// bcryptMaxBytes is the longest input bcrypt accepts.
const bcryptMaxBytes = 72

// PasswordValidator validates passwords against length limits.
type PasswordValidator struct {
	MinLength int // in characters
	MaxBytes  int // in bytes, bounded by bcrypt
}

// DefaultPasswordValidator returns the validator used for sign-up.
func DefaultPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		MinLength: 6,
		MaxBytes:  bcryptMaxBytes,
	}
}

// ValidationError represents a single password validation error
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationResult holds all validation errors
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// Validate checks a password against all configured limits
func (v *PasswordValidator) Validate(password string) ValidationResult {
	var errors []ValidationError

	if utf8.RuneCountInString(password) < v.MinLength {
		errors = append(errors, ValidationError{
			Code:    "min_length",
			Message: fmt.Sprintf("Password must be at least %d characters", v.MinLength),
		})
	}

	if v.MaxBytes > 0 && len(password) > v.MaxBytes {
		errors = append(errors, ValidationError{
			Code:    "max_length",
			Message: fmt.Sprintf("Password must be at most %d bytes", v.MaxBytes),
		})
	}

	return ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

// HelpTexts returns help texts for password requirements
func (v *PasswordValidator) HelpTexts() []string {
	texts := []string{fmt.Sprintf("At least %d characters", v.MinLength)}
	if v.MaxBytes > 0 {
		texts = append(texts, fmt.Sprintf("At most %d bytes (fewer for non-Latin characters)", v.MaxBytes))
	}
	return texts
}
