package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		baseURL:    server.URL,
		token:      "test-token",
		httpClient: server.Client(),
		logger:     logger.New("test"),
	}
}

func TestClient_List_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": [
			{"id": "42", "name": "Widget", "price": 9.99, "specific_attributes": {"sku": "W-1", "quantity_in_stock": "5"}},
			{"id": "43", "name": "Gadget", "price": 19.99}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	products, err := client.List(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "42", products[0].ID)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Equal(t, domain.StringAttr("W-1"), products[0].SpecificAttributes["sku"])
	assert.Equal(t, domain.StringAttr("5"), products[0].SpecificAttributes["quantity_in_stock"])
}

func TestClient_GetByID_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server)

	product, err := client.GetByID(context.Background(), "missing")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Create_ExtractsAssignedID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"product": {"id": 42}}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	created, err := client.Create(context.Background(), domain.MarketplaceProduct{Name: "Widget", Price: 9.99})

	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)
	assert.Equal(t, "Widget", created.Name)
}

func TestClient_Create_NoRecognizableID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "created"}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	created, err := client.Create(context.Background(), domain.MarketplaceProduct{Name: "Widget", Price: 9.99})

	require.NoError(t, err, "an unrecognized ID shape is not a failure")
	assert.Empty(t, created.ID)
}

func TestClient_Create_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "price must be positive"}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	created, err := client.Create(context.Background(), domain.MarketplaceProduct{Name: "Widget"})

	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrMarketplaceRejected)
	assert.Contains(t, err.Error(), "price must be positive")
}

func TestClient_Update_RequiresID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent")
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.Update(context.Background(), domain.MarketplaceProduct{Name: "Widget"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(server)
	server.Close()

	_, err := client.List(context.Background())

	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_ListOrders_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders": [
			{"id": "o-1", "status": "paid", "total_price": 19.98, "items": [
				{"product_id": "42", "quantity": 2, "unit_price": 9.99}
			]}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	orders, err := client.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o-1", orders[0].ID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
}
