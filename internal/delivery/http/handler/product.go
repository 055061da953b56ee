package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Pesokrava/marketplace_sync/internal/delivery/http/request"
	"github.com/Pesokrava/marketplace_sync/internal/delivery/http/response"
	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
	"github.com/Pesokrava/marketplace_sync/internal/usecase/product"
)

// MarketplaceReader serves the cached marketplace product listing, falling
// back to the live API on a cache miss.
type MarketplaceReader interface {
	GetMarketplaceProducts(ctx context.Context, marketplaceType string) ([]domain.MarketplaceProduct, error)
	SetMarketplaceProducts(ctx context.Context, marketplaceType string, products []domain.MarketplaceProduct) error
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service         *product.Service
	client          domain.MarketplaceClient
	cache           MarketplaceReader
	marketplaceType string
	logger          *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	service *product.Service,
	client domain.MarketplaceClient,
	cache MarketplaceReader,
	marketplaceType string,
	log *logger.Logger,
) *ProductHandler {
	return &ProductHandler{
		service:         service,
		client:          client,
		cache:           cache,
		marketplaceType: marketplaceType,
		logger:          log,
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	ExternalID  string   `json:"external_id,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Price       float64  `json:"price" validate:"gte=0"`
	OldPrice    float64  `json:"old_price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Description string   `json:"description,omitempty"`
	MainImage   string   `json:"main_image,omitempty"`
	Images      []string `json:"images,omitempty"`
	Quantity    int      `json:"quantity_in_stock,omitempty"`
	InStock     bool     `json:"in_stock,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	SKU         string   `json:"sku,omitempty"`
	Price       float64  `json:"price" validate:"gte=0"`
	OldPrice    float64  `json:"old_price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Description string   `json:"description,omitempty"`
	MainImage   string   `json:"main_image,omitempty"`
	Images      []string `json:"images,omitempty"`
	Quantity    int      `json:"quantity_in_stock,omitempty"`
	InStock     bool     `json:"in_stock,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// GetByID handles GET /api/v1/products/:id
// @Summary Get a product by ID
// @Description Get an internal product including its marketplace mappings
// @Tags Products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, p)
}

// List handles GET /api/v1/products
// @Summary List internal products
// @Description Get a paginated list of internal products
// @Tags Products
// @Produce json
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of products"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	products, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, products, total, limit, offset)
}

// Create handles POST /api/v1/products
// @Summary Create a product
// @Description Create a new internal product; it gets a marketplace ID on export
// @Tags Products
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Product details"
// @Success 201 {object} map[string]interface{} "Product created"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := &domain.Product{
		Name:            req.Name,
		ExternalID:      req.ExternalID,
		SKU:             req.SKU,
		Price:           req.Price,
		OldPrice:        req.OldPrice,
		Currency:        req.Currency,
		Description:     req.Description,
		MainImage:       req.MainImage,
		Images:          req.Images,
		QuantityInStock: req.Quantity,
		InStock:         req.InStock,
		Status:          req.Status,
	}

	if err := h.service.Create(r.Context(), p); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, p)
}

// Update handles PUT /api/v1/products/:id
// @Summary Update a product
// @Description Update the commerce fields of an internal product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param product body UpdateProductRequest true "Updated product details"
// @Success 200 {object} map[string]interface{} "Product updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Load first so marketplace mappings and attribute bag survive the edit.
	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	p.Name = req.Name
	p.SKU = req.SKU
	p.Price = req.Price
	p.OldPrice = req.OldPrice
	p.Currency = req.Currency
	p.Description = req.Description
	p.MainImage = req.MainImage
	p.Images = req.Images
	p.QuantityInStock = req.Quantity
	p.InStock = req.InStock
	p.Status = req.Status

	if err := h.service.Update(r.Context(), p); err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, p)
}

// ListMarketplace handles GET /api/v1/marketplace/products
// @Summary List marketplace products
// @Description Get the marketplace's product listing, served from cache when fresh
// @Tags Products
// @Produce json
// @Success 200 {object} map[string]interface{} "Marketplace product list"
// @Failure 502 {object} map[string]string "Marketplace unreachable"
// @Router /marketplace/products [get]
func (h *ProductHandler) ListMarketplace(w http.ResponseWriter, r *http.Request) {
	if cached, err := h.cache.GetMarketplaceProducts(r.Context(), h.marketplaceType); err == nil {
		response.Success(w, cached)
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		h.logger.Warnf("Marketplace list cache read failed: %v", err)
	}

	products, err := h.client.List(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	if err := h.cache.SetMarketplaceProducts(r.Context(), h.marketplaceType, products); err != nil {
		h.logger.Warnf("Failed to cache marketplace product list: %v", err)
	}

	response.Success(w, products)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrConflict):
		response.Error(w, http.StatusConflict, "Conflict - marketplace ID already claimed")
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrMarketplaceRejected):
		response.Error(w, http.StatusBadGateway, "Marketplace unreachable")
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
