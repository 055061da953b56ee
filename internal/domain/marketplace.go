package domain

import (
	"context"
	"fmt"
	"strings"
)

// MarketplaceProduct is the external-shape product DTO. ID is the
// marketplace-assigned identifier and stays empty until the marketplace
// accepts a create. Everything beyond the three first-class fields travels
// in SpecificAttributes.
type MarketplaceProduct struct {
	ID                 string               `json:"id,omitempty"`
	Name               string               `json:"name"`
	Price              float64              `json:"price"`
	Description        string               `json:"description,omitempty"`
	SpecificAttributes map[string]AttrValue `json:"specific_attributes,omitempty"`
}

// MarketplaceOrder is the external-shape order DTO. Orders are read-mostly:
// the sync engine imports them but never writes them back.
type MarketplaceOrder struct {
	ID         string                 `json:"id"`
	Status     string                 `json:"status,omitempty"`
	TotalPrice float64                `json:"total_price"`
	Currency   string                 `json:"currency,omitempty"`
	BuyerName  string                 `json:"buyer_name,omitempty"`
	BuyerPhone string                 `json:"buyer_phone,omitempty"`
	BuyerEmail string                 `json:"buyer_email,omitempty"`
	PlacedAt   string                 `json:"placed_at,omitempty"`
	Items      []MarketplaceOrderItem `json:"items,omitempty"`
}

// MarketplaceOrderItem is one line of a marketplace order.
type MarketplaceOrderItem struct {
	ProductID string  `json:"product_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	SKU       string  `json:"sku,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// MarketplaceClient defines the narrow client contract against the external
// marketplace API. Read operations surface NotFound as ErrNotFound and
// transport failures wrapped in ErrTransport; write operations additionally
// surface non-2xx responses wrapped in ErrMarketplaceRejected.
type MarketplaceClient interface {
	// List retrieves all products visible on the marketplace
	List(ctx context.Context) ([]MarketplaceProduct, error)

	// GetByID retrieves a single product by its marketplace-assigned ID
	GetByID(ctx context.Context, id string) (*MarketplaceProduct, error)

	// Create publishes a new product and returns it with its assigned ID.
	// The returned ID may be empty when the marketplace accepted the create
	// but answered in a shape carrying no recognizable ID.
	Create(ctx context.Context, product MarketplaceProduct) (*MarketplaceProduct, error)

	// Update pushes changes for an already-listed product
	Update(ctx context.Context, product MarketplaceProduct) (*MarketplaceProduct, error)

	// Delete removes a product listing by its marketplace-assigned ID
	Delete(ctx context.Context, id string) error

	// ListOrders retrieves the marketplace's orders
	ListOrders(ctx context.Context) ([]MarketplaceOrder, error)
}

// SyncDirection selects which way a synchronization pass moves data.
type SyncDirection string

const (
	// DirectionImport pulls marketplace products into the internal store
	DirectionImport SyncDirection = "import"

	// DirectionExport pushes internal products to the marketplace
	DirectionExport SyncDirection = "export"

	// DirectionBoth runs Import then Export; local state is the final word
	DirectionBoth SyncDirection = "both"
)

// ParseSyncDirection parses a direction string, case-insensitively.
func ParseSyncDirection(s string) (SyncDirection, error) {
	switch SyncDirection(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionImport:
		return DirectionImport, nil
	case DirectionExport:
		return DirectionExport, nil
	case DirectionBoth:
		return DirectionBoth, nil
	default:
		return "", fmt.Errorf("%w: unknown sync direction %q", ErrInvalidInput, s)
	}
}

// SyncResult tallies one synchronization pass. Per-item error detail is
// logged, not retained.
type SyncResult struct {
	Imported int `json:"imported"`
	Exported int `json:"exported"`
	Failed   int `json:"failed"`
}

// Add folds another result into this one.
func (r *SyncResult) Add(other SyncResult) {
	r.Imported += other.Imported
	r.Exported += other.Exported
	r.Failed += other.Failed
}
