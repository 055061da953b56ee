package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
)

// OrderRepository implements domain.OrderRepository for PostgreSQL
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new PostgreSQL order repository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderRow struct {
	ID              uuid.UUID      `db:"id"`
	MarketplaceID   string         `db:"marketplace_id"`
	MarketplaceType string         `db:"marketplace_type"`
	Status          string         `db:"status"`
	TotalPrice      float64        `db:"total_price"`
	Currency        string         `db:"currency"`
	BuyerName       string         `db:"buyer_name"`
	BuyerPhone      string         `db:"buyer_phone"`
	BuyerEmail      string         `db:"buyer_email"`
	Items           orderItemSlice `db:"items"`
	PlacedAt        *time.Time     `db:"placed_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r *orderRow) toDomain() *domain.Order {
	return &domain.Order{
		ID:              r.ID,
		MarketplaceID:   r.MarketplaceID,
		MarketplaceType: r.MarketplaceType,
		Status:          r.Status,
		TotalPrice:      r.TotalPrice,
		Currency:        r.Currency,
		BuyerName:       r.BuyerName,
		BuyerPhone:      r.BuyerPhone,
		BuyerEmail:      r.BuyerEmail,
		Items:           []domain.OrderItem(r.Items),
		PlacedAt:        r.PlacedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

const orderColumns = `
	id, marketplace_id, marketplace_type, status, total_price, currency,
	buyer_name, buyer_phone, buyer_email, items, placed_at, created_at,
	updated_at
`

// Create creates a new order
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			marketplace_id, marketplace_type, status, total_price, currency,
			buyer_name, buyer_phone, buyer_email, items, placed_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		order.MarketplaceID,
		order.MarketplaceType,
		order.Status,
		order.TotalPrice,
		order.Currency,
		order.BuyerName,
		order.BuyerPhone,
		order.BuyerEmail,
		orderItemSlice(order.Items),
		order.PlacedAt,
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

// GetByMarketplaceID retrieves the order owning a marketplace-assigned ID
func (r *OrderRepository) GetByMarketplaceID(ctx context.Context, marketplaceID, marketplaceType string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE marketplace_id = $1 AND marketplace_type = $2
	`

	var row orderRow
	err := r.db.GetContext(ctx, &row, query, marketplaceID, marketplaceType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return row.toDomain(), nil
}

// List retrieves a paginated list of orders
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY placed_at DESC NULLS LAST, created_at DESC
		LIMIT $1 OFFSET $2
	`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, rows[i].toDomain())
	}
	return orders, nil
}

// Update updates an existing order
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders SET
			status = $1, total_price = $2, currency = $3, buyer_name = $4,
			buyer_phone = $5, buyer_email = $6, items = $7, placed_at = $8,
			updated_at = $9
		WHERE id = $10
	`

	order.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		order.Status,
		order.TotalPrice,
		order.Currency,
		order.BuyerName,
		order.BuyerPhone,
		order.BuyerEmail,
		orderItemSlice(order.Items),
		order.PlacedAt,
		order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
