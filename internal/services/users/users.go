// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package users implements profile and administration actions on accounts.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"codeberg.org/oliverandrich/storefront/internal/secret"
	"codeberg.org/oliverandrich/storefront/internal/services/auth"
)

// PageSize is the number of users per admin list page.
const PageSize = 10

// Messages.
const (
	MsgUserUpdated   = "User updated successfully"
	MsgUserDeleted   = "User deleted successfully"
	MsgUserNotFound  = "User not found"
	MsgTermsRequired = "You must agree to the terms to continue"
	MsgInvalidRole   = "Invalid role"
)

// PaymentMethods lists the accepted payment method types.
var PaymentMethods = []string{"PayPal", "Stripe", "CashOnDelivery"}

type Service struct {
	repo *repository.Repository
	box  *secret.Box
}

// NewService creates the users service. box decrypts stored phone numbers
// and may be nil.
func NewService(repo *repository.Repository, box *secret.Box) *Service {
	return &Service{repo: repo, box: box}
}

// Phone returns the decrypted phone number of user, or "" when none is
// stored or it cannot be decrypted with the configured key.
func (s *Service) Phone(user *models.User) string {
	if user.Phone == nil || *user.Phone == "" || s.box == nil {
		return ""
	}
	phone, err := s.box.Decrypt(*user.Phone)
	if err != nil {
		slog.Warn("phone_decrypt_failed", "user_id", user.ID, "error", err)
		return ""
	}
	return phone
}

// Get loads a user by ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	return user, mapErr(err)
}

// UpdateProfile changes the display name of the user.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, name string) error {
	if err := auth.ValidateName(name); err != nil {
		return err
	}
	return mapErr(s.repo.UpdateUserName(ctx, userID, strings.TrimSpace(name)))
}

// ValidateAddress checks that every address field is at least 3 characters.
func ValidateAddress(addr models.ShippingAddress) error {
	fields := []struct {
		label, value string
	}{
		{"Name", addr.FullName},
		{"Address", addr.StreetAddress},
		{"City", addr.City},
		{"Postal code", addr.PostalCode},
		{"Country", addr.Country},
	}
	for _, f := range fields {
		if len([]rune(strings.TrimSpace(f.value))) < 3 {
			return apperr.Validation(f.label + " must be at least 3 characters")
		}
	}
	return nil
}

// UpdateAddress stores the shipping address of the user.
func (s *Service) UpdateAddress(ctx context.Context, userID int64, addr models.ShippingAddress) error {
	if err := ValidateAddress(addr); err != nil {
		return err
	}
	data, err := json.Marshal(addr)
	if err != nil {
		return apperr.Internal(err)
	}
	return mapErr(s.repo.UpdateUserAddress(ctx, userID, string(data)))
}

// Address decodes the stored shipping address, if any.
func Address(user *models.User) (models.ShippingAddress, bool) {
	var addr models.ShippingAddress
	if user.Address == nil || *user.Address == "" {
		return addr, false
	}
	if err := json.Unmarshal([]byte(*user.Address), &addr); err != nil {
		return addr, false
	}
	return addr, true
}

// UpdatePaymentMethod stores the preferred payment method type.
func (s *Service) UpdatePaymentMethod(ctx context.Context, userID int64, method string) error {
	method = strings.TrimSpace(method)
	valid := false
	for _, m := range PaymentMethods {
		if m == method {
			valid = true
			break
		}
	}
	if !valid {
		return apperr.Validation("Invalid payment method")
	}
	return mapErr(s.repo.UpdateUserPaymentMethod(ctx, userID, method))
}

// AcceptTerms records consent and returns the updated user.
func (s *Service) AcceptTerms(ctx context.Context, userID int64, termsAgreed, marketingConsent bool) (*models.User, error) {
	if !termsAgreed {
		return nil, apperr.Validation(MsgTermsRequired)
	}
	if err := s.repo.SetUserConsent(ctx, userID, true, marketingConsent); err != nil {
		return nil, mapErr(err)
	}
	return s.Get(ctx, userID)
}

// Page is one page of the admin user list.
type Page struct {
	Query      string
	Users      []models.User
	Page       int
	TotalPages int
	Total      int
}

// HasPrevious reports whether a previous page exists.
func (p *Page) HasPrevious() bool {
	return p.Page > 1
}

// HasNext reports whether a next page exists.
func (p *Page) HasNext() bool {
	return p.Page < p.TotalPages
}

// List returns a page of users whose name contains query, newest first.
// The query "all" matches every user.
func (s *Service) List(ctx context.Context, page int, query string) (*Page, error) {
	if page < 1 {
		page = 1
	}
	query = strings.TrimSpace(query)
	filter := query
	if filter == "all" {
		filter = ""
	}

	total, err := s.repo.CountUsers(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	users, err := s.repo.ListUsers(ctx, filter, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &Page{
		Users:      users,
		Page:       page,
		TotalPages: (total + PageSize - 1) / PageSize,
		Total:      total,
		Query:      query,
	}, nil
}

// Update changes name and role of a user.
func (s *Service) Update(ctx context.Context, id int64, name, role string) error {
	if err := auth.ValidateName(name); err != nil {
		return err
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return apperr.Validation(MsgInvalidRole)
	}
	return mapErr(s.repo.UpdateUserNameRole(ctx, id, strings.TrimSpace(name), role))
}

// Delete removes a user and their linked accounts.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return mapErr(s.repo.DeleteUser(ctx, id))
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, MsgUserNotFound, err)
	}
	var conflict *repository.ConflictError
	if errors.As(err, &conflict) {
		return apperr.Wrap(apperr.KindConflict, conflict.Error(), err)
	}
	return apperr.Internal(err)
}
