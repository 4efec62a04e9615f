package model

import "time"

// Category groups menu items for browsing (e.g. Antipasti, Primi).
type Category struct {
	ID        uint64    `json:"id"`         // categories.id
	Name      string    `json:"name"`       // categories.name
	SortOrder uint32    `json:"sort_order"` // categories.sort_order
	CreatedAt time.Time `json:"created_at"` // categories.created_at
}

// MenuItem is a sellable product.  PriceCents is the current list
// price; carts snapshot it at add time, so changing it here never
// affects already-built carts or persisted orders.
type MenuItem struct {
	ID          uint64    `json:"id"`                    // menu_items.id
	CategoryID  uint64    `json:"category_id"`           // menu_items.category_id
	Name        string    `json:"name"`                  // menu_items.name
	Description *string   `json:"description,omitempty"` // menu_items.description (nullable)
	PriceCents  int64     `json:"price_cents"`           // menu_items.price_cents
	Available   bool      `json:"available"`             // menu_items.available
	CreatedAt   time.Time `json:"created_at"`            // menu_items.created_at
	UpdatedAt   time.Time `json:"updated_at"`            // menu_items.updated_at
}
