package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
)

const uniqueViolation = "23505"

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// productRow mirrors the products table; open-shaped columns use the JSONB
// wrapper types.
type productRow struct {
	ID                      uuid.UUID     `db:"id"`
	ExternalID              string        `db:"external_id"`
	MarketplaceID           string        `db:"marketplace_id"`
	MarketplaceType         string        `db:"marketplace_type"`
	MarketplaceMappings     stringMap     `db:"marketplace_mappings"`
	MarketplaceData         attrMap       `db:"marketplace_data"`
	Name                    string        `db:"name"`
	SKU                     string        `db:"sku"`
	Price                   float64       `db:"price"`
	OldPrice                float64       `db:"old_price"`
	Currency                string        `db:"currency"`
	Description             string        `db:"description"`
	MainImage               string        `db:"main_image"`
	Images                  stringSlice   `db:"images"`
	QuantityInStock         int           `db:"quantity_in_stock"`
	InStock                 bool          `db:"in_stock"`
	Status                  string        `db:"status"`
	CategoryID              string        `db:"category_id"`
	CategoryName            string        `db:"category_name"`
	GroupID                 string        `db:"group_id"`
	GroupName               string        `db:"group_name"`
	NameTranslations        stringMap     `db:"name_translations"`
	DescriptionTranslations stringMap     `db:"description_translations"`
	IsVariant               bool          `db:"is_variant"`
	VariantGroupID          string        `db:"variant_group_id"`
	ParentProductID         *uuid.UUID    `db:"parent_product_id"`
	Variants                variantSlice  `db:"variants"`
	Properties              propertySlice `db:"properties"`
	CreatedAt               time.Time     `db:"created_at"`
	UpdatedAt               time.Time     `db:"updated_at"`
}

func toRow(p *domain.Product) *productRow {
	return &productRow{
		ID:                      p.ID,
		ExternalID:              p.ExternalID,
		MarketplaceID:           p.MarketplaceID,
		MarketplaceType:         p.MarketplaceType,
		MarketplaceMappings:     stringMap(p.MarketplaceMappings),
		MarketplaceData:         attrMap(p.MarketplaceData),
		Name:                    p.Name,
		SKU:                     p.SKU,
		Price:                   p.Price,
		OldPrice:                p.OldPrice,
		Currency:                p.Currency,
		Description:             p.Description,
		MainImage:               p.MainImage,
		Images:                  stringSlice(p.Images),
		QuantityInStock:         p.QuantityInStock,
		InStock:                 p.InStock,
		Status:                  p.Status,
		CategoryID:              p.CategoryID,
		CategoryName:            p.CategoryName,
		GroupID:                 p.GroupID,
		GroupName:               p.GroupName,
		NameTranslations:        stringMap(p.NameTranslations),
		DescriptionTranslations: stringMap(p.DescriptionTranslations),
		IsVariant:               p.IsVariant,
		VariantGroupID:          p.VariantGroupID,
		ParentProductID:         p.ParentProductID,
		Variants:                variantSlice(p.Variants),
		Properties:              propertySlice(p.Properties),
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}

func (r *productRow) toDomain() *domain.Product {
	return &domain.Product{
		ID:                      r.ID,
		ExternalID:              r.ExternalID,
		MarketplaceID:           r.MarketplaceID,
		MarketplaceType:         r.MarketplaceType,
		MarketplaceMappings:     map[string]string(r.MarketplaceMappings),
		MarketplaceData:         map[string]domain.AttrValue(r.MarketplaceData),
		Name:                    r.Name,
		SKU:                     r.SKU,
		Price:                   r.Price,
		OldPrice:                r.OldPrice,
		Currency:                r.Currency,
		Description:             r.Description,
		MainImage:               r.MainImage,
		Images:                  []string(r.Images),
		QuantityInStock:         r.QuantityInStock,
		InStock:                 r.InStock,
		Status:                  r.Status,
		CategoryID:              r.CategoryID,
		CategoryName:            r.CategoryName,
		GroupID:                 r.GroupID,
		GroupName:               r.GroupName,
		NameTranslations:        map[string]string(r.NameTranslations),
		DescriptionTranslations: map[string]string(r.DescriptionTranslations),
		IsVariant:               r.IsVariant,
		VariantGroupID:          r.VariantGroupID,
		ParentProductID:         r.ParentProductID,
		Variants:                []domain.ProductVariant(r.Variants),
		Properties:              []domain.ProductProperty(r.Properties),
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
}

const productColumns = `
	id, external_id, marketplace_id, marketplace_type, marketplace_mappings,
	marketplace_data, name, sku, price, old_price, currency, description,
	main_image, images, quantity_in_stock, in_stock, status, category_id,
	category_name, group_id, group_name, name_translations,
	description_translations, is_variant, variant_group_id,
	parent_product_id, variants, properties, created_at, updated_at
`

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			external_id, marketplace_id, marketplace_type, marketplace_mappings,
			marketplace_data, name, sku, price, old_price, currency, description,
			main_image, images, quantity_in_stock, in_stock, status, category_id,
			category_name, group_id, group_name, name_translations,
			description_translations, is_variant, variant_group_id,
			parent_product_id, variants, properties, created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29
		)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	row := toRow(product)

	err := r.db.QueryRowxContext(
		ctx,
		query,
		row.ExternalID,
		row.MarketplaceID,
		row.MarketplaceType,
		row.MarketplaceMappings,
		row.MarketplaceData,
		row.Name,
		row.SKU,
		row.Price,
		row.OldPrice,
		row.Currency,
		row.Description,
		row.MainImage,
		row.Images,
		row.QuantityInStock,
		row.InStock,
		row.Status,
		row.CategoryID,
		row.CategoryName,
		row.GroupID,
		row.GroupName,
		row.NameTranslations,
		row.DescriptionTranslations,
		row.IsVariant,
		row.VariantGroupID,
		row.ParentProductID,
		row.Variants,
		row.Properties,
		row.CreatedAt,
		row.UpdatedAt,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

// GetByID retrieves a product by internal ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var row productRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return row.toDomain(), nil
}

// GetByIDs retrieves products by a set of internal IDs
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	return rowsToDomain(rows), nil
}

// GetByMarketplaceID retrieves the product owning a marketplace-assigned ID.
// The partial unique index on (marketplace_type, marketplace_id) guarantees
// at most one row.
func (r *ProductRepository) GetByMarketplaceID(ctx context.Context, marketplaceID, marketplaceType string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE marketplace_id = $1 AND marketplace_type = $2
	`

	var row productRow
	err := r.db.GetContext(ctx, &row, query, marketplaceID, marketplaceType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return row.toDomain(), nil
}

// GetByMarketplaceType retrieves all products tagged with a marketplace type
func (r *ProductRepository) GetByMarketplaceType(ctx context.Context, marketplaceType string) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE marketplace_type = $1
		ORDER BY created_at
	`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, marketplaceType); err != nil {
		return nil, err
	}

	return rowsToDomain(rows), nil
}

// List retrieves a paginated list of products
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, err
	}

	return rowsToDomain(rows), nil
}

// Update updates an existing product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products SET
			external_id = $1, marketplace_id = $2, marketplace_type = $3,
			marketplace_mappings = $4, marketplace_data = $5, name = $6,
			sku = $7, price = $8, old_price = $9, currency = $10,
			description = $11, main_image = $12, images = $13,
			quantity_in_stock = $14, in_stock = $15, status = $16,
			category_id = $17, category_name = $18, group_id = $19,
			group_name = $20, name_translations = $21,
			description_translations = $22, is_variant = $23,
			variant_group_id = $24, parent_product_id = $25, variants = $26,
			properties = $27, updated_at = $28
		WHERE id = $29
	`

	product.UpdatedAt = time.Now()
	row := toRow(product)

	result, err := r.db.ExecContext(
		ctx,
		query,
		row.ExternalID,
		row.MarketplaceID,
		row.MarketplaceType,
		row.MarketplaceMappings,
		row.MarketplaceData,
		row.Name,
		row.SKU,
		row.Price,
		row.OldPrice,
		row.Currency,
		row.Description,
		row.MainImage,
		row.Images,
		row.QuantityInStock,
		row.InStock,
		row.Status,
		row.CategoryID,
		row.CategoryName,
		row.GroupID,
		row.GroupName,
		row.NameTranslations,
		row.DescriptionTranslations,
		row.IsVariant,
		row.VariantGroupID,
		row.ParentProductID,
		row.Variants,
		row.Properties,
		row.UpdatedAt,
		row.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
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

// Count returns the total number of products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, err
	}
	return count, nil
}

func rowsToDomain(rows []productRow) []*domain.Product {
	products := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toDomain())
	}
	return products
}

// mapUniqueViolation surfaces a duplicate (marketplace_type, marketplace_id)
// claim as domain.ErrConflict.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrConflict
	}
	return err
}
