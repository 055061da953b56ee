package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product represents an internal product aggregate. One product may be known
// to a marketplace under a marketplace-assigned ID, recorded both in
// MarketplaceID/MarketplaceType and in MarketplaceMappings.
type Product struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ExternalID string    `json:"external_id,omitempty" db:"external_id"`

	MarketplaceID       string               `json:"marketplace_id,omitempty" db:"marketplace_id"`
	MarketplaceType     string               `json:"marketplace_type,omitempty" db:"marketplace_type"`
	MarketplaceMappings map[string]string    `json:"marketplace_mappings,omitempty" db:"marketplace_mappings"`
	MarketplaceData     map[string]AttrValue `json:"marketplace_data,omitempty" db:"marketplace_data"`

	Name            string   `json:"name" db:"name" validate:"required,min=1,max=255"`
	SKU             string   `json:"sku,omitempty" db:"sku"`
	Price           float64  `json:"price" db:"price" validate:"gte=0"`
	OldPrice        float64  `json:"old_price,omitempty" db:"old_price"`
	Currency        string   `json:"currency,omitempty" db:"currency"`
	Description     string   `json:"description,omitempty" db:"description"`
	MainImage       string   `json:"main_image,omitempty" db:"main_image"`
	Images          []string `json:"images,omitempty" db:"images"`
	QuantityInStock int      `json:"quantity_in_stock" db:"quantity_in_stock"`
	InStock         bool     `json:"in_stock" db:"in_stock"`
	Status          string   `json:"status,omitempty" db:"status"`
	CategoryID      string   `json:"category_id,omitempty" db:"category_id"`
	CategoryName    string   `json:"category_name,omitempty" db:"category_name"`
	GroupID         string   `json:"group_id,omitempty" db:"group_id"`
	GroupName       string   `json:"group_name,omitempty" db:"group_name"`

	NameTranslations        map[string]string `json:"name_translations,omitempty" db:"name_translations"`
	DescriptionTranslations map[string]string `json:"description_translations,omitempty" db:"description_translations"`

	IsVariant       bool             `json:"is_variant" db:"is_variant"`
	VariantGroupID  string           `json:"variant_group_id,omitempty" db:"variant_group_id"`
	ParentProductID *uuid.UUID       `json:"parent_product_id,omitempty" db:"parent_product_id"`
	Variants        []ProductVariant `json:"variants,omitempty" db:"variants"`

	Properties []ProductProperty `json:"properties,omitempty" db:"properties"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductVariant is a concrete sellable SKU under a parent product
// (a specific size or color) with its own pricing and stock.
type ProductVariant struct {
	ID              uuid.UUID `json:"id"`
	MarketplaceID   string    `json:"marketplace_id,omitempty"`
	SKU             string    `json:"sku,omitempty"`
	Price           float64   `json:"price"`
	OldPrice        float64   `json:"old_price,omitempty"`
	QuantityInStock int       `json:"quantity_in_stock"`
	InStock         bool      `json:"in_stock"`
	MainImage       string    `json:"main_image,omitempty"`
	Images          []string  `json:"images,omitempty"`
}

// ProductProperty is a free-form name/value/unit attribute (size, color, material).
type ProductProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// SetMarketplaceID records the ID a marketplace assigned to this product,
// keeping MarketplaceID and MarketplaceMappings in lock-step.
func (p *Product) SetMarketplaceID(marketplaceType, marketplaceID string) {
	p.MarketplaceID = marketplaceID
	p.MarketplaceType = marketplaceType
	if p.MarketplaceMappings == nil {
		p.MarketplaceMappings = make(map[string]string)
	}
	p.MarketplaceMappings[marketplaceType] = marketplaceID
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by internal ID
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetByIDs retrieves products by a set of internal IDs
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// GetByMarketplaceID retrieves the product owning a marketplace-assigned ID
	GetByMarketplaceID(ctx context.Context, marketplaceID, marketplaceType string) (*Product, error)

	// GetByMarketplaceType retrieves all products tagged with a marketplace type
	GetByMarketplaceType(ctx context.Context, marketplaceType string) ([]*Product, error)

	// List retrieves a paginated list of products
	List(ctx context.Context, limit, offset int) ([]*Product, error)

	// Update updates an existing product
	Update(ctx context.Context, product *Product) error

	// Count returns the total number of products
	Count(ctx context.Context) (int, error)
}
