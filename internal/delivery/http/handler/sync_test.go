package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/mapper"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
	syncUsecase "github.com/Pesokrava/marketplace_sync/internal/usecase/sync"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByMarketplaceID(ctx context.Context, marketplaceID, marketplaceType string) (*domain.Product, error) {
	args := m.Called(ctx, marketplaceID, marketplaceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByMarketplaceType(ctx context.Context, marketplaceType string) ([]*domain.Product, error) {
	args := m.Called(ctx, marketplaceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of domain.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByMarketplaceID(ctx context.Context, marketplaceID, marketplaceType string) (*domain.Order, error) {
	args := m.Called(ctx, marketplaceID, marketplaceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockMarketplaceClient is a mock implementation of domain.MarketplaceClient
type MockMarketplaceClient struct {
	mock.Mock
}

func (m *MockMarketplaceClient) List(ctx context.Context) ([]domain.MarketplaceProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MarketplaceProduct), args.Error(1)
}

func (m *MockMarketplaceClient) GetByID(ctx context.Context, id string) (*domain.MarketplaceProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketplaceProduct), args.Error(1)
}

func (m *MockMarketplaceClient) Create(ctx context.Context, product domain.MarketplaceProduct) (*domain.MarketplaceProduct, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketplaceProduct), args.Error(1)
}

func (m *MockMarketplaceClient) Update(ctx context.Context, product domain.MarketplaceProduct) (*domain.MarketplaceProduct, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketplaceProduct), args.Error(1)
}

func (m *MockMarketplaceClient) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMarketplaceClient) ListOrders(ctx context.Context) ([]domain.MarketplaceOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MarketplaceOrder), args.Error(1)
}

// MockSyncCache covers the cache surface the sync flow touches.
type MockSyncCache struct {
	mock.Mock
}

func (m *MockSyncCache) SetLastSyncResult(ctx context.Context, marketplaceType string, result domain.SyncResult) error {
	args := m.Called(ctx, marketplaceType, result)
	return args.Error(0)
}

func (m *MockSyncCache) GetLastSyncResult(ctx context.Context, marketplaceType string) (*domain.SyncResult, error) {
	args := m.Called(ctx, marketplaceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}

func (m *MockSyncCache) InvalidateMarketplaceProducts(ctx context.Context, marketplaceType string) error {
	args := m.Called(ctx, marketplaceType)
	return args.Error(0)
}

func (m *MockSyncCache) GetMarketplaceProducts(ctx context.Context, marketplaceType string) ([]domain.MarketplaceProduct, error) {
	args := m.Called(ctx, marketplaceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MarketplaceProduct), args.Error(1)
}

func (m *MockSyncCache) SetMarketplaceProducts(ctx context.Context, marketplaceType string, products []domain.MarketplaceProduct) error {
	args := m.Called(ctx, marketplaceType, products)
	return args.Error(0)
}

// MockPublisher is a mock implementation of JobPublisher / EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type syncHandlerFixture struct {
	handler   *SyncHandler
	products  *MockProductRepository
	client    *MockMarketplaceClient
	cache     *MockSyncCache
	publisher *MockPublisher
}

func newSyncHandlerFixture() *syncHandlerFixture {
	products := new(MockProductRepository)
	orders := new(MockOrderRepository)
	client := new(MockMarketplaceClient)
	cache := new(MockSyncCache)
	publisher := new(MockPublisher)
	log := logger.New("test")

	service := syncUsecase.NewService(products, orders, client, mapper.New("prom"), cache, publisher, "prom", 1, log)
	handler := NewSyncHandler(service, publisher, cache, "prom", log)

	return &syncHandlerFixture{
		handler:   handler,
		products:  products,
		client:    client,
		cache:     cache,
		publisher: publisher,
	}
}

func (f *syncHandlerFixture) expectFinish() {
	f.cache.On("InvalidateMarketplaceProducts", mock.Anything, "prom").Return(nil)
	f.cache.On("SetLastSyncResult", mock.Anything, "prom", mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, "sync.events", mock.Anything).Return(nil)
}

func postSync(body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), req
}

func TestSyncHandler_Trigger_InlineSuccess(t *testing.T) {
	f := newSyncHandlerFixture()
	f.expectFinish()

	f.client.On("List", mock.Anything).Return([]domain.MarketplaceProduct{
		{ID: "42", Name: "Widget", Price: 9.99},
	}, nil)
	f.products.On("GetByMarketplaceID", mock.Anything, "42", "prom").Return(nil, domain.ErrNotFound)
	f.products.On("Create", mock.Anything, mock.Anything).Return(nil)

	w, req := postSync(`{"direction": "import"}`)
	f.handler.Trigger(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data, ok := response["data"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, float64(1), data["imported"])
}

func TestSyncHandler_Trigger_InvalidDirection(t *testing.T) {
	f := newSyncHandlerFixture()

	w, req := postSync(`{"direction": "sideways"}`)
	f.handler.Trigger(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.client.AssertNotCalled(t, "List")
}

func TestSyncHandler_Trigger_InvalidJSON(t *testing.T) {
	f := newSyncHandlerFixture()

	w, req := postSync(`not json`)
	f.handler.Trigger(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncHandler_Trigger_AsyncEnqueues(t *testing.T) {
	f := newSyncHandlerFixture()

	f.publisher.On("Publish", mock.Anything, "sync.jobs", mock.Anything).Return(nil)

	w, req := postSync(`{"direction": "both", "async": true, "with_orders": true}`)
	f.handler.Trigger(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	f.publisher.AssertExpectations(t)
	f.client.AssertNotCalled(t, "List")
}

func TestSyncHandler_Trigger_MarketplaceUnreachable(t *testing.T) {
	f := newSyncHandlerFixture()
	f.expectFinish()

	f.client.On("List", mock.Anything).Return(nil, domain.ErrTransport)

	w, req := postSync(`{"direction": "import"}`)
	f.handler.Trigger(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSyncHandler_LastResult_Success(t *testing.T) {
	f := newSyncHandlerFixture()

	f.cache.On("GetLastSyncResult", mock.Anything, "prom").Return(&domain.SyncResult{Imported: 3, Failed: 1}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/last", nil)
	f.handler.LastResult(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response, "data")
}

func TestSyncHandler_LastResult_NotRecorded(t *testing.T) {
	f := newSyncHandlerFixture()

	f.cache.On("GetLastSyncResult", mock.Anything, "prom").Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/last", nil)
	f.handler.LastResult(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncHandler_ImportOrders_Success(t *testing.T) {
	f := newSyncHandlerFixture()

	f.client.On("ListOrders", mock.Anything).Return([]domain.MarketplaceOrder{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/import", nil)
	f.handler.ImportOrders(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
