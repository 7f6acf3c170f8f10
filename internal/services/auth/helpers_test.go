// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import "codeberg.org/oliverandrich/storefront/internal/models"

func newOAuthUser(email string) *models.User {
	return &models.User{Name: "OAuth User", Email: email}
}
