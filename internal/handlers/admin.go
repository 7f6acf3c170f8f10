// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"strconv"

	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/services/users"
	"codeberg.org/oliverandrich/storefront/internal/templates"
	"github.com/labstack/echo/v4"
)

var roles = []string{models.RoleUser, models.RoleAdmin}

// AdminHandlers contains the user administration handlers.
type AdminHandlers struct {
	users *users.Service
}

// NewAdmin creates a new AdminHandlers instance.
func NewAdmin(usersSvc *users.Service) *AdminHandlers {
	return &AdminHandlers{users: usersSvc}
}

// Users lists users, filtered by name.
func (h *AdminHandlers) Users(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	list, err := h.users.List(c.Request().Context(), page, c.QueryParam("query"))
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.AdminUsers(list))
}

// EditUser renders the user form.
func (h *AdminHandlers) EditUser(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.AdminUserEdit(templates.AdminUserData{User: user, Roles: roles}))
}

// UpdateUser changes name and role of a user.
func (h *AdminHandlers) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := userID(c)
	if err != nil {
		return err
	}

	name, role := c.FormValue("name"), c.FormValue("role")
	updateErr := h.users.Update(ctx, id, name, role)
	if apperr.KindOf(updateErr) == apperr.KindNotFound {
		return updateErr
	}

	user, err := h.users.Get(ctx, id)
	if err != nil {
		return err
	}
	if updateErr != nil {
		user.Name, user.Role = name, role
	}
	return Render(c, statusFor(updateErr), templates.AdminUserEdit(templates.AdminUserData{
		User:   user,
		Roles:  roles,
		Result: result(updateErr, users.MsgUserUpdated),
	}))
}

// DeleteUser removes a user and returns to the list.
func (h *AdminHandlers) DeleteUser(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return redirect(c, "/admin/users")
}

func userID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}
