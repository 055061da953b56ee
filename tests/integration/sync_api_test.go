//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/marketplace_sync/internal/config"
	"github.com/Pesokrava/marketplace_sync/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/marketplace_sync/internal/delivery/http"
	"github.com/Pesokrava/marketplace_sync/internal/delivery/http/handler"
	"github.com/Pesokrava/marketplace_sync/internal/mapper"
	"github.com/Pesokrava/marketplace_sync/internal/marketplace"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/cache"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/database"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/marketplace_sync/internal/repository/cache"
	"github.com/Pesokrava/marketplace_sync/internal/repository/postgres"
	"github.com/Pesokrava/marketplace_sync/internal/usecase/product"
	"github.com/Pesokrava/marketplace_sync/internal/usecase/publish"
	syncUsecase "github.com/Pesokrava/marketplace_sync/internal/usecase/sync"
)

// fakeMarketplace serves a minimal marketplace API for the sync flow to talk to.
func fakeMarketplace(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": [
			{"id": "it-1", "name": "Integration Widget", "price": 9.99,
			 "specific_attributes": {"sku": "IW-1", "quantity_in_stock": "5"}}
		]}`))
	})
	mux.HandleFunc("POST /products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"product": {"id": "it-99"}}`))
	})
	mux.HandleFunc("PUT /products/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders": []}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setupTestServer(t *testing.T, marketplaceURL string) http.Handler {
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Marketplace.BaseURL = marketplaceURL

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	redisClient, err := cache.WaitForRedis(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	publisher, err := events.NewPublisher(cfg, log)
	require.NoError(t, err)

	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.MarketplaceListTTL,
		cfg.Cache.SyncResultTTL,
	)

	mpClient := marketplace.NewClient(cfg, log)
	attrMapper := mapper.New(cfg.Marketplace.Type)

	productService := product.NewService(productRepo, log)
	syncService := syncUsecase.NewService(
		productRepo,
		orderRepo,
		mpClient,
		attrMapper,
		redisCache,
		publisher,
		cfg.Marketplace.Type,
		cfg.Sync.Workers,
		log,
	)
	publishService := publish.NewService(mpClient, productRepo, cfg.Marketplace.Type, log)

	productHandler := handler.NewProductHandler(productService, mpClient, redisCache, cfg.Marketplace.Type, log)
	syncHandler := handler.NewSyncHandler(syncService, publisher, redisCache, cfg.Marketplace.Type, log)
	publishHandler := handler.NewPublishHandler(publishService, log)

	router := httpDelivery.NewRouter(productHandler, syncHandler, publishHandler, cfg, log)
	return router.Setup()
}

func TestSyncImportFlow(t *testing.T) {
	mp := fakeMarketplace(t)
	server := setupTestServer(t, mp.URL)

	// Trigger an inline import pass
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync",
		bytes.NewReader([]byte(`{"direction": "import"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var syncResp struct {
		Data struct {
			Imported int `json:"imported"`
			Failed   int `json:"failed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &syncResp))
	assert.GreaterOrEqual(t, syncResp.Data.Imported, 1)
	assert.Zero(t, syncResp.Data.Failed)

	// A second pass must converge on the same products, not duplicate them
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/sync",
		bytes.NewReader([]byte(`{"direction": "import"}`)))
	req2.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)

	// The imported product is visible through the back-office listing
	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=100", nil)
	listW := httptest.NewRecorder()
	server.ServeHTTP(listW, listReq)
	require.Equal(t, http.StatusOK, listW.Code)

	var listResp struct {
		Data []struct {
			Name          string `json:"name"`
			MarketplaceID string `json:"marketplace_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &listResp))

	seen := 0
	for _, p := range listResp.Data {
		if p.MarketplaceID == "it-1" {
			seen++
			assert.Equal(t, "Integration Widget", p.Name)
		}
	}
	assert.Equal(t, 1, seen, "re-importing must not create a duplicate product")
}

func TestSyncLastResult(t *testing.T) {
	mp := fakeMarketplace(t)
	server := setupTestServer(t, mp.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync",
		bytes.NewReader([]byte(`{"direction": "import"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	lastReq := httptest.NewRequest(http.MethodGet, "/api/v1/sync/last", nil)
	lastW := httptest.NewRecorder()
	server.ServeHTTP(lastW, lastReq)

	assert.Equal(t, http.StatusOK, lastW.Code)

	var lastResp map[string]any
	require.NoError(t, json.Unmarshal(lastW.Body.Bytes(), &lastResp))
	assert.Contains(t, lastResp, "data")
}

func TestPublishFlow(t *testing.T) {
	mp := fakeMarketplace(t)
	server := setupTestServer(t, mp.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/publish",
		bytes.NewReader([]byte(`{"title": "Integration Mug", "price": 250}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Success              bool   `json:"success"`
			MarketplaceProductID string `json:"marketplace_product_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Success)
	assert.Equal(t, "it-99", resp.Data.MarketplaceProductID)
}
