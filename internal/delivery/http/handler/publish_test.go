package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
	"github.com/Pesokrava/marketplace_sync/internal/usecase/publish"
)

type publishHandlerFixture struct {
	handler *PublishHandler
	client  *MockMarketplaceClient
	repo    *MockProductRepository
}

func newPublishHandlerFixture() *publishHandlerFixture {
	client := new(MockMarketplaceClient)
	repo := new(MockProductRepository)
	log := logger.New("test")

	service := publish.NewService(client, repo, "prom", log)
	handler := NewPublishHandler(service, log)

	return &publishHandlerFixture{handler: handler, client: client, repo: repo}
}

func postPublish(body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/publish", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), req
}

func TestPublishHandler_Publish_Success(t *testing.T) {
	f := newPublishHandlerFixture()

	f.client.On("Create", mock.Anything, mock.Anything).Return(&domain.MarketplaceProduct{ID: "mp-7"}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	w, req := postPublish(`{"title": "Handmade mug", "price": 250}`)
	f.handler.Publish(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data, ok := response["data"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "mp-7", data["marketplace_product_id"])
}

func TestPublishHandler_Publish_InvalidDescription(t *testing.T) {
	f := newPublishHandlerFixture()

	w, req := postPublish(`{"title": "", "price": 250}`)
	f.handler.Publish(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.client.AssertNotCalled(t, "Create")
}

func TestPublishHandler_Publish_MarketplaceRejected(t *testing.T) {
	f := newPublishHandlerFixture()

	f.client.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrMarketplaceRejected)

	w, req := postPublish(`{"title": "Handmade mug", "price": 250}`)
	f.handler.Publish(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var outcome publish.Outcome
	err := json.Unmarshal(w.Body.Bytes(), &outcome)
	assert.NoError(t, err)
	assert.False(t, outcome.Success)
}
