// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/storefront/internal/repository"
	"codeberg.org/oliverandrich/storefront/internal/templates"
	"github.com/labstack/echo/v4"
)

// LatestProductsLimit is the number of products on the home page.
const LatestProductsLimit = 4

// Handlers contains the public page handlers.
type Handlers struct {
	repo *repository.Repository
}

// New creates a new Handlers instance.
func New(repo *repository.Repository) *Handlers {
	return &Handlers{repo: repo}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	if h.repo != nil {
		if err := h.repo.DB().PingContext(c.Request().Context()); err != nil {
			slog.Error("health_check_failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home renders the latest products.
func (h *Handlers) Home(c echo.Context) error {
	products, err := h.repo.GetLatestProducts(c.Request().Context(), LatestProductsLimit)
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.Home(products))
}

// Product renders a single product.
func (h *Handlers) Product(c echo.Context) error {
	p, err := h.repo.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, repository.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.Product(p))
}

// Terms renders the terms of use.
func (h *Handlers) Terms(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Terms())
}

// Privacy renders the privacy policy.
func (h *Handlers) Privacy(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Privacy())
}
