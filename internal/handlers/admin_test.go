// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"codeberg.org/oliverandrich/storefront/internal/handlers"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"codeberg.org/oliverandrich/storefront/internal/services/users"
	"codeberg.org/oliverandrich/storefront/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminEnv(t *testing.T) (*handlers.AdminHandlers, *repository.Repository) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	return handlers.NewAdmin(users.NewService(repo, nil)), repo
}

func withUserID(c echo.Context, id int64) {
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(id, 10))
}

func TestAdminUsers(t *testing.T) {
	h, repo := newAdminEnv(t)
	testutil.NewTestUser(t, repo, "Alice Admin", "alice@example.com")
	testutil.NewTestUser(t, repo, "Bob Buyer", "bob@example.com")
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/admin/users?query=bob", nil)

	require.NoError(t, h.Users(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bob@example.com")
	assert.NotContains(t, rec.Body.String(), "alice@example.com")
}

func TestAdminUsers_Pagination(t *testing.T) {
	h, repo := newAdminEnv(t)
	for i := range users.PageSize + 2 {
		testutil.NewTestUser(t, repo, fmt.Sprintf("User %02d", i), fmt.Sprintf("user%02d@example.com", i))
	}

	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/admin/users", nil)
	require.NoError(t, h.Users(c))
	assert.Contains(t, rec.Body.String(), "page=2")

	c, rec = testutil.NewEchoContext(echo.New(), http.MethodGet, "/admin/users?page=2", nil)
	require.NoError(t, h.Users(c))
	assert.Contains(t, rec.Body.String(), "page=1")
	assert.NotContains(t, rec.Body.String(), "page=3")
}

func TestAdminEditUser(t *testing.T) {
	h, repo := newAdminEnv(t)
	user := testutil.NewTestUser(t, repo, "Bob Buyer", "bob@example.com")
	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/admin/users/1", nil)
	withUserID(c, user.ID)

	require.NoError(t, h.EditUser(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Bob Buyer"`)
	assert.Contains(t, rec.Body.String(), `<option value="user" selected>`)
}

func TestAdminEditUser_NotFound(t *testing.T) {
	h, _ := newAdminEnv(t)

	c, _ := testutil.NewEchoContext(echo.New(), http.MethodGet, "/admin/users/999", nil)
	withUserID(c, 999)
	err := h.EditUser(c)
	assert.Error(t, err)

	c, _ = testutil.NewEchoContext(echo.New(), http.MethodGet, "/admin/users/abc", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	assert.Equal(t, echo.ErrNotFound, h.EditUser(c))
}

func TestAdminUpdateUser(t *testing.T) {
	h, repo := newAdminEnv(t)
	user := testutil.NewTestUser(t, repo, "Bob Buyer", "bob@example.com")
	c, rec := testutil.NewFormContext(echo.New(), "/admin/users/1", url.Values{
		"name": {"Bob Boss"},
		"role": {models.RoleAdmin},
	})
	withUserID(c, user.ID)

	require.NoError(t, h.UpdateUser(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), users.MsgUserUpdated)

	updated, err := repo.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob Boss", updated.Name)
	assert.True(t, updated.IsAdmin())
}

func TestAdminUpdateUser_InvalidRole(t *testing.T) {
	h, repo := newAdminEnv(t)
	user := testutil.NewTestUser(t, repo, "Bob Buyer", "bob@example.com")
	c, rec := testutil.NewFormContext(echo.New(), "/admin/users/1", url.Values{
		"name": {"Bob Boss"},
		"role": {"superuser"},
	})
	withUserID(c, user.ID)

	require.NoError(t, h.UpdateUser(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), users.MsgInvalidRole)

	unchanged, err := repo.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob Buyer", unchanged.Name)
}

func TestAdminDeleteUser(t *testing.T) {
	h, repo := newAdminEnv(t)
	user := testutil.NewTestUser(t, repo, "Bob Buyer", "bob@example.com")
	c, rec := testutil.NewFormContext(echo.New(), "/admin/users/1/delete", nil)
	withUserID(c, user.ID)

	require.NoError(t, h.DeleteUser(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/users", rec.Header().Get("Location"))
	_, err := repo.GetUserByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
