// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/storefront/internal/models"
)

const productColumns = `id, name, slug, category, brand, description, stock, images,
	is_featured, banner, price, rating, num_reviews, created_at`

// CreateProduct inserts a product and fills in its ID.
func (r *Repository) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.timestamp()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, slug, category, brand, description, stock, images,
			is_featured, banner, price, rating, num_reviews, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Slug, p.Category, p.Brand, p.Description, p.Stock, p.Images,
		p.IsFeatured, p.Banner, p.Price, p.Rating, p.NumReviews, p.CreatedAt.UTC())
	if err != nil {
		return wrapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// GetLatestProducts returns the newest products.
func (r *Repository) GetLatestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductBySlug retrieves a product by its URL slug.
func (r *Repository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE slug = ?`, slug)
	if err != nil {
		return nil, wrapError(err)
	}
	return &p, nil
}

// DeleteAllProducts empties the catalogue.
func (r *Repository) DeleteAllProducts(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products`)
	return err
}
