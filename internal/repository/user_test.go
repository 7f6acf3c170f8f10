// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"codeberg.org/oliverandrich/storefront/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := &models.User{Email: "  Jane@Example.com "}
	err := repo.CreateUser(ctx, user)

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.DefaultName, user.Name)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotZero(t, user.CreatedAt)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{Email: "jane@example.com"}))

	err := repo.CreateUser(ctx, &models.User{Email: "jane@example.com"})

	var conflict *repository.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Email", conflict.Field)
	assert.Equal(t, "Email already exists", conflict.Error())
}

func TestGetUserByID(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestUser(t, repo, "Jane Doe", "jane@example.com")

	retrieved, err := repo.GetUserByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
	assert.Equal(t, "Jane Doe", retrieved.Name)
	assert.True(t, retrieved.HasPassword())
	assert.False(t, retrieved.TermsAgreed)
	assert.Nil(t, retrieved.TermsAgreedAt)
}

func TestGetUserByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByID(context.Background(), 999)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	created := testutil.NewTestUser(t, repo, "Jane Doe", "jane@example.com")

	retrieved, err := repo.GetUserByEmail(context.Background(), "JANE@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEmailExists(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.NewTestUser(t, repo, "Jane Doe", "jane@example.com")

	exists, err := repo.EmailExists(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "john@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateUserNameRole(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "Jane Doe", "jane@example.com")

	require.NoError(t, repo.UpdateUserNameRole(ctx, user.ID, "Jane Admin", models.RoleAdmin))

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Admin", updated.Name)
	assert.True(t, updated.IsAdmin())
}

func TestUpdateUserName_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	err := repo.UpdateUserName(context.Background(), 42, "Ghost")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateUserAddressAndPayment(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "Jane Doe", "jane@example.com")

	require.NoError(t, repo.UpdateUserAddress(ctx, user.ID, `{"city":"Berlin"}`))
	require.NoError(t, repo.UpdateUserPaymentMethod(ctx, user.ID, "PayPal"))

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Address)
	assert.JSONEq(t, `{"city":"Berlin"}`, *updated.Address)
	require.NotNil(t, updated.PaymentMethod)
	assert.Equal(t, "PayPal", *updated.PaymentMethod)
}

func TestSetUserConsent(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "Jane Doe", "jane@example.com")

	require.NoError(t, repo.SetUserConsent(ctx, user.ID, true, false))

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.TermsAgreed)
	assert.NotNil(t, updated.TermsAgreedAt)
	assert.False(t, updated.MarketingConsent)
	assert.Nil(t, updated.MarketingConsentAt)
}

func TestSetUserRole(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.NewTestUser(t, repo, "Jane Doe", "jane@example.com")

	require.NoError(t, repo.SetUserRole(ctx, "jane@example.com", models.RoleAdmin))
	assert.ErrorIs(t, repo.SetUserRole(ctx, "nobody@example.com", models.RoleAdmin), repository.ErrNotFound)

	user, err := repo.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestDeleteUser_CascadesAccounts(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "Jane Doe", "jane@example.com")
	require.NoError(t, repo.UpsertAccount(ctx, &models.Account{
		UserID: user.ID, Type: "oauth", Provider: "google", ProviderAccountID: "g-1",
	}))

	require.NoError(t, repo.DeleteUser(ctx, user.ID))

	_, err := repo.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetAccount(ctx, "google", "g-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteUser(ctx, user.ID), repository.ErrNotFound)
}

func TestListUsers(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.NewTestUser(t, repo, "Alice Smith", "alice@example.com")
	testutil.NewTestUser(t, repo, "Bob Jones", "bob@example.com")
	testutil.NewTestUser(t, repo, "Carol Smith", "carol@example.com")

	all, err := repo.ListUsers(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Carol Smith", all[0].Name, "newest first")

	smiths, err := repo.ListUsers(ctx, "smith", 10, 0)
	require.NoError(t, err)
	assert.Len(t, smiths, 2)

	count, err := repo.CountUsers(ctx, "SMITH")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	page, err := repo.ListUsers(ctx, "", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Alice Smith", page[0].Name)
}

func TestListUsers_EscapesWildcards(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.NewTestUser(t, repo, "Alice Smith", "alice@example.com")

	users, err := repo.ListUsers(ctx, "%", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}
