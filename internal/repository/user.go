// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/oliverandrich/storefront/internal/models"
)

const userColumns = `id, name, email, password_hash, role, phone, address, payment_method,
	terms_agreed, terms_agreed_at, marketing_consent, marketing_consent_at, created_at, updated_at`

// CreateUser inserts user and fills in its ID and timestamps.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	now := r.timestamp()
	if user.Name == "" {
		user.Name = models.DefaultName
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, phone, address, payment_method,
			terms_agreed, terms_agreed_at, marketing_consent, marketing_consent_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.Phone, user.Address, user.PaymentMethod,
		user.TermsAgreed, user.TermsAgreedAt, user.MarketingConsent, user.MarketingConsentAt, now, now)
	if err != nil {
		return wrapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address, ignoring case.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// EmailExists checks if a user with the given email exists.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateUserName sets the display name of a user.
func (r *Repository) UpdateUserName(ctx context.Context, id int64, name string) error {
	return r.updateUser(ctx, id, `name = ?`, name)
}

// UpdateUserNameRole sets name and role in one statement.
func (r *Repository) UpdateUserNameRole(ctx context.Context, id int64, name, role string) error {
	return r.updateUser(ctx, id, `name = ?, role = ?`, name, role)
}

// UpdateUserAddress stores the JSON encoded shipping address.
func (r *Repository) UpdateUserAddress(ctx context.Context, id int64, address string) error {
	return r.updateUser(ctx, id, `address = ?`, address)
}

// UpdateUserPaymentMethod stores the preferred payment method.
func (r *Repository) UpdateUserPaymentMethod(ctx context.Context, id int64, method string) error {
	return r.updateUser(ctx, id, `payment_method = ?`, method)
}

// SetUserRole changes the role of the user with the given email.
func (r *Repository) SetUserRole(ctx context.Context, email, role string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE email = ?`,
		role, r.timestamp(), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetUserConsent records terms agreement and marketing consent.
// Timestamps are only set when the respective flag is true.
func (r *Repository) SetUserConsent(ctx context.Context, id int64, termsAgreed, marketingConsent bool) error {
	now := r.timestamp()
	var termsAt, marketingAt *time.Time
	if termsAgreed {
		termsAt = &now
	}
	if marketingConsent {
		marketingAt = &now
	}
	return r.updateUser(ctx, id,
		`terms_agreed = ?, terms_agreed_at = ?, marketing_consent = ?, marketing_consent_at = ?`,
		termsAgreed, termsAt, marketingConsent, marketingAt)
}

// DeleteUser deletes a user; linked accounts are removed by cascade.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListUsers returns users whose name contains query, newest first.
func (r *Repository) ListUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE name LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		likePattern(query), limit, offset)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountUsers counts users whose name contains query.
func (r *Repository) CountUsers(ctx context.Context, query string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE name LIKE ? ESCAPE '\'`, likePattern(query))
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) updateUser(ctx context.Context, id int64, set string, args ...any) error {
	args = append(args, r.timestamp(), id)
	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+set+`, updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return wrapError(err)
	}
	return requireRow(res)
}

func likePattern(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(query)) + "%"
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireRow(res rowsAffecter) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
