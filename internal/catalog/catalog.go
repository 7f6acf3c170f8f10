// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package catalog validates products and loads the sample catalog.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"codeberg.org/oliverandrich/storefront/internal/apperr"
	"codeberg.org/oliverandrich/storefront/internal/models"
	"codeberg.org/oliverandrich/storefront/internal/repository"
	"github.com/BurntSushi/toml"
)

//go:embed sample-data.toml
var sampleData []byte

// MsgImageRequired is returned for products without images.
const MsgImageRequired = "Product must have at least one image"

type sampleFile struct {
	Products []models.Product `toml:"products"`
}

// Validate checks a product before it is stored.
func Validate(p *models.Product) error {
	fields := []struct {
		label, value string
	}{
		{"Name", p.Name},
		{"Slug", p.Slug},
		{"Category", p.Category},
		{"Brand", p.Brand},
		{"Description", p.Description},
	}
	for _, f := range fields {
		if utf8.RuneCountInString(strings.TrimSpace(f.value)) < 3 {
			return apperr.Validation(f.label + " must be at least 3 characters")
		}
	}
	if len(p.Images) == 0 {
		return apperr.Validation(MsgImageRequired)
	}
	if p.Price < 0 {
		return apperr.Validation("Price must not be negative")
	}
	if p.Stock < 0 {
		return apperr.Validation("Stock must not be negative")
	}
	return nil
}

// SampleProducts parses the embedded sample catalog.
func SampleProducts() ([]models.Product, error) {
	return parse(sampleData)
}

func parse(data []byte) ([]models.Product, error) {
	var file sampleFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("decoding sample data: %w", err)
	}
	for i := range file.Products {
		if err := Validate(&file.Products[i]); err != nil {
			return nil, fmt.Errorf("product %q: %w", file.Products[i].Slug, err)
		}
	}
	return file.Products, nil
}

// Seed replaces all products with products.
func Seed(ctx context.Context, repo *repository.Repository, products []models.Product) error {
	if err := repo.DeleteAllProducts(ctx); err != nil {
		return fmt.Errorf("deleting products: %w", err)
	}
	for i := range products {
		if err := repo.CreateProduct(ctx, &products[i]); err != nil {
			return fmt.Errorf("creating product %q: %w", products[i].Slug, err)
		}
	}
	slog.Info("catalog_seeded", "products", len(products))
	return nil
}
