package domain

import "time"

// Product is an accessory sold through the store (cables, adapters, cases).
type Product struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int32     `json:"price_cents"`
	Stock       int32     `json:"stock"`
	Active      bool      `json:"active"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}
