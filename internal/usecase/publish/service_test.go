package publish

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
)

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

func strPtr(s string) *string { return &s }

func TestService_Publish_Success(t *testing.T) {
	mockClient := new(MockMarketplaceClient)
	mockRepo := new(MockProductRepository)
	log := logger.New("test")
	service := NewService(mockClient, mockRepo, "prom", log)

	desc := RefinedDescription{
		Title:       "Handmade mug",
		Description: "A ceramic mug",
		Price:       250,
		Images:      []string{"https://cdn.example/mug.jpg"},
		SEOTitle:    strPtr("Handmade ceramic mug"),
		NameTranslations: map[string]string{
			"uk": "Чашка ручної роботи",
		},
	}

	mockClient.On("Create", mock.Anything, mock.MatchedBy(func(mp domain.MarketplaceProduct) bool {
		return mp.Name == "Handmade mug" &&
			mp.Price == 250 &&
			reflect.DeepEqual(mp.SpecificAttributes["seo_title"], domain.StringAttr("Handmade ceramic mug"))
	})).Return(&domain.MarketplaceProduct{ID: "mp-7", Name: "Handmade mug"}, nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "Handmade mug" &&
			p.MarketplaceID == "mp-7" &&
			p.MarketplaceMappings["prom"] == "mp-7" &&
			p.MainImage == "https://cdn.example/mug.jpg"
	})).Return(nil)

	outcome, err := service.Publish(context.Background(), desc)

	assert.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "mp-7", outcome.MarketplaceProductID)
	mockClient.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestService_Publish_NoReturnedID(t *testing.T) {
	mockClient := new(MockMarketplaceClient)
	mockRepo := new(MockProductRepository)
	log := logger.New("test")
	service := NewService(mockClient, mockRepo, "prom", log)

	mockClient.On("Create", mock.Anything, mock.Anything).Return(&domain.MarketplaceProduct{Name: "Handmade mug"}, nil)

	outcome, err := service.Publish(context.Background(), RefinedDescription{Title: "Handmade mug", Price: 250})

	assert.NoError(t, err)
	assert.True(t, outcome.Success, "an accepted listing without an ID is still a success")
	assert.Empty(t, outcome.MarketplaceProductID)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestService_Publish_InvalidDescription(t *testing.T) {
	mockClient := new(MockMarketplaceClient)
	mockRepo := new(MockProductRepository)
	log := logger.New("test")
	service := NewService(mockClient, mockRepo, "prom", log)

	outcome, err := service.Publish(context.Background(), RefinedDescription{Title: "", Price: 250})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, outcome.Success)
	mockClient.AssertNotCalled(t, "Create")
}

func TestService_Publish_MarketplaceRejection(t *testing.T) {
	mockClient := new(MockMarketplaceClient)
	mockRepo := new(MockProductRepository)
	log := logger.New("test")
	service := NewService(mockClient, mockRepo, "prom", log)

	mockClient.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrMarketplaceRejected)

	outcome, err := service.Publish(context.Background(), RefinedDescription{Title: "Handmade mug", Price: 250})

	assert.ErrorIs(t, err, domain.ErrMarketplaceRejected)
	assert.False(t, outcome.Success)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestService_Publish_LocalPersistFailureStillSucceeds(t *testing.T) {
	mockClient := new(MockMarketplaceClient)
	mockRepo := new(MockProductRepository)
	log := logger.New("test")
	service := NewService(mockClient, mockRepo, "prom", log)

	mockClient.On("Create", mock.Anything, mock.Anything).Return(&domain.MarketplaceProduct{ID: "mp-7"}, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	outcome, err := service.Publish(context.Background(), RefinedDescription{Title: "Handmade mug", Price: 250})

	assert.NoError(t, err, "the listing exists regardless of the local record")
	assert.True(t, outcome.Success)
	assert.Equal(t, "mp-7", outcome.MarketplaceProductID)
}
