// Package marketplace implements the HTTP client for the external marketplace
// API: bearer-token auth, JSON envelopes and tolerant decoding of the several
// response shapes the API answers with. The client applies no retries; each
// method is at most one round trip.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Pesokrava/marketplace_sync/internal/config"
	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
)

const maxResponseBodySize = 10 << 20 // 10MB

// Client talks to the marketplace REST API. It implements
// domain.MarketplaceClient.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a marketplace client from configuration.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		baseURL: cfg.Marketplace.BaseURL,
		token:   cfg.Marketplace.Token,
		httpClient: &http.Client{
			Timeout: cfg.Marketplace.RequestTimeout,
		},
		logger: log,
	}
}

// productEnvelope wraps a single product on the wire.
type productEnvelope struct {
	Product domain.MarketplaceProduct `json:"product"`
}

// productListEnvelope wraps the product listing on the wire.
type productListEnvelope struct {
	Products []domain.MarketplaceProduct `json:"products"`
}

// orderListEnvelope wraps the order listing on the wire.
type orderListEnvelope struct {
	Orders []domain.MarketplaceOrder `json:"orders"`
}

// List retrieves all products visible on the marketplace.
func (c *Client) List(ctx context.Context) ([]domain.MarketplaceProduct, error) {
	body, err := c.do(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}

	var envelope productListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding product list: %v", domain.ErrTransport, err)
	}

	return envelope.Products, nil
}

// GetByID retrieves a single product by its marketplace-assigned ID.
// A 404 surfaces as domain.ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.MarketplaceProduct, error) {
	body, err := c.do(ctx, http.MethodGet, "/products/"+id, nil)
	if err != nil {
		return nil, err
	}

	var envelope productEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding product %s: %v", domain.ErrTransport, id, err)
	}

	return &envelope.Product, nil
}

// Create publishes a new product listing and returns it with the ID the
// marketplace assigned. The ID may be empty when the response carried no
// recognizable ID shape.
func (c *Client) Create(ctx context.Context, product domain.MarketplaceProduct) (*domain.MarketplaceProduct, error) {
	payload, err := json.Marshal(productEnvelope{Product: product})
	if err != nil {
		return nil, fmt.Errorf("encoding product: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/products", payload)
	if err != nil {
		return nil, err
	}

	created := product
	if id, ok := ExtractCreatedID(body); ok {
		created.ID = id
	} else {
		c.logger.WithFields(map[string]interface{}{
			"name": product.Name,
		}).Warn("Marketplace accepted create but returned no recognizable product ID")
	}

	return &created, nil
}

// Update pushes changes for an already-listed product.
func (c *Client) Update(ctx context.Context, product domain.MarketplaceProduct) (*domain.MarketplaceProduct, error) {
	if product.ID == "" {
		return nil, fmt.Errorf("%w: update requires a marketplace product ID", domain.ErrInvalidInput)
	}

	payload, err := json.Marshal(productEnvelope{Product: product})
	if err != nil {
		return nil, fmt.Errorf("encoding product: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPut, "/products/"+product.ID, payload); err != nil {
		return nil, err
	}

	updated := product
	return &updated, nil
}

// Delete removes a product listing.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/products/"+id, nil)
	return err
}

// ListOrders retrieves the marketplace's orders.
func (c *Client) ListOrders(ctx context.Context) ([]domain.MarketplaceOrder, error) {
	body, err := c.do(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}

	var envelope orderListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding order list: %v", domain.ErrTransport, err)
	}

	return envelope.Orders, nil
}

// do performs one HTTP round trip and returns the raw response body.
// 404 maps to domain.ErrNotFound, other non-2xx statuses to
// domain.ErrMarketplaceRejected and network failures to domain.ErrTransport.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", domain.ErrTransport, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrTransport, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Marketplace API call")

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s returned %d: %s",
			domain.ErrMarketplaceRejected, method, path, resp.StatusCode, truncate(body, 512))
	}

	return body, nil
}

func truncate(body []byte, max int) string {
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
