package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order is an internal record of a marketplace order. Orders flow one way
// (marketplace to internal); the sync engine never pushes them back.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	MarketplaceID   string      `json:"marketplace_id" db:"marketplace_id"`
	MarketplaceType string      `json:"marketplace_type" db:"marketplace_type"`
	Status          string      `json:"status,omitempty" db:"status"`
	TotalPrice      float64     `json:"total_price" db:"total_price"`
	Currency        string      `json:"currency,omitempty" db:"currency"`
	BuyerName       string      `json:"buyer_name,omitempty" db:"buyer_name"`
	BuyerPhone      string      `json:"buyer_phone,omitempty" db:"buyer_phone"`
	BuyerEmail      string      `json:"buyer_email,omitempty" db:"buyer_email"`
	Items           []OrderItem `json:"items,omitempty" db:"items"`
	PlacedAt        *time.Time  `json:"placed_at,omitempty" db:"placed_at"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductMarketplaceID string  `json:"product_marketplace_id,omitempty"`
	Name                 string  `json:"name,omitempty"`
	SKU                  string  `json:"sku,omitempty"`
	Quantity             int     `json:"quantity"`
	UnitPrice            float64 `json:"unit_price"`
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create creates a new order
	Create(ctx context.Context, order *Order) error

	// GetByMarketplaceID retrieves the order owning a marketplace-assigned ID
	GetByMarketplaceID(ctx context.Context, marketplaceID, marketplaceType string) (*Order, error)

	// List retrieves a paginated list of orders
	List(ctx context.Context, limit, offset int) ([]*Order, error)

	// Update updates an existing order
	Update(ctx context.Context, order *Order) error
}
