// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Product is an item listed in the storefront.
type Product struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64      `db:"id" json:"id" toml:"-"`
	Name        string     `db:"name" json:"name" toml:"name"`
	Slug        string     `db:"slug" json:"slug" toml:"slug"`
	Category    string     `db:"category" json:"category" toml:"category"`
	Brand       string     `db:"brand" json:"brand" toml:"brand"`
	Description string     `db:"description" json:"description" toml:"description"`
	Stock       int64      `db:"stock" json:"stock" toml:"stock"`
	Images      StringList `db:"images" json:"images" toml:"images"`
	IsFeatured  bool       `db:"is_featured" json:"is_featured" toml:"is_featured"`
	Banner      *string    `db:"banner" json:"banner,omitempty" toml:"banner"`
	Price       int64      `db:"price" json:"price" toml:"price"` // in cents
	Rating      float64    `db:"rating" json:"rating" toml:"rating"`
	NumReviews  int64      `db:"num_reviews" json:"num_reviews" toml:"num_reviews"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at" toml:"-"`
}

// FormattedPrice renders the price with exactly two decimals.
func (p *Product) FormattedPrice() string {
	return fmt.Sprintf("%d.%02d", p.Price/100, p.Price%100)
}

// InStock reports whether the product can be ordered.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// StringList is a list of strings stored as a JSON array column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	return json.Unmarshal(data, (*[]string)(l))
}
