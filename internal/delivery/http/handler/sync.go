package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Pesokrava/marketplace_sync/internal/delivery/http/request"
	"github.com/Pesokrava/marketplace_sync/internal/delivery/http/response"
	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
	syncUsecase "github.com/Pesokrava/marketplace_sync/internal/usecase/sync"
	"github.com/Pesokrava/marketplace_sync/internal/worker"
)

// JobPublisher publishes async sync jobs onto JetStream.
type JobPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// SyncCache reads the cached last sync result.
type SyncCache interface {
	GetLastSyncResult(ctx context.Context, marketplaceType string) (*domain.SyncResult, error)
}

// SyncHandler handles HTTP requests that trigger synchronization passes
type SyncHandler struct {
	service         *syncUsecase.Service
	jobs            JobPublisher
	cache           SyncCache
	marketplaceType string
	logger          *logger.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(
	service *syncUsecase.Service,
	jobs JobPublisher,
	cache SyncCache,
	marketplaceType string,
	log *logger.Logger,
) *SyncHandler {
	return &SyncHandler{
		service:         service,
		jobs:            jobs,
		cache:           cache,
		marketplaceType: marketplaceType,
		logger:          log,
	}
}

// SyncRequest represents the request body for triggering a sync pass
type SyncRequest struct {
	Direction  string   `json:"direction" validate:"required"`
	ProductIDs []string `json:"product_ids,omitempty"`
	WithOrders bool     `json:"with_orders,omitempty"`
	Async      bool     `json:"async,omitempty"`
}

// Trigger handles POST /api/v1/sync
// @Summary Trigger a synchronization pass
// @Description Run a marketplace sync pass (import, export or both), inline or as an async job
// @Tags Sync
// @Accept json
// @Produce json
// @Param sync body SyncRequest true "Sync parameters"
// @Success 200 {object} map[string]interface{} "Sync result"
// @Success 202 {object} map[string]interface{} "Job accepted"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 502 {object} map[string]string "Marketplace unreachable"
// @Router /sync [post]
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	direction, err := domain.ParseSyncDirection(req.Direction)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid sync direction")
		return
	}

	if req.Async {
		h.enqueue(w, r, req)
		return
	}

	result, err := h.service.Sync(r.Context(), direction, req.ProductIDs)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, result)
}

// enqueue publishes the pass as a JetStream job for the sync worker.
func (h *SyncHandler) enqueue(w http.ResponseWriter, r *http.Request, req SyncRequest) {
	job := worker.SyncJob{
		Direction:   req.Direction,
		ProductIDs:  req.ProductIDs,
		WithOrders:  req.WithOrders,
		RequestedAt: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		h.logger.Error("Failed to marshal sync job", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.jobs.Publish(r.Context(), "sync.jobs", data); err != nil {
		h.logger.Error("Failed to enqueue sync job", err)
		response.Error(w, http.StatusInternalServerError, "Failed to enqueue sync job")
		return
	}

	response.JSON(w, http.StatusAccepted, map[string]interface{}{
		"success":  true,
		"enqueued": true,
	})
}

// LastResult handles GET /api/v1/sync/last
// @Summary Last sync result
// @Description Return the result of the most recent sync pass
// @Tags Sync
// @Produce json
// @Success 200 {object} map[string]interface{} "Last sync result"
// @Failure 404 {object} map[string]string "No sync pass recorded"
// @Router /sync/last [get]
func (h *SyncHandler) LastResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.cache.GetLastSyncResult(r.Context(), h.marketplaceType)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "No sync pass recorded yet")
			return
		}
		h.logger.Error("Failed to read last sync result", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.Success(w, result)
}

// ImportOrders handles POST /api/v1/orders/import
// @Summary Import marketplace orders
// @Description Pull the marketplace's orders into the local store
// @Tags Sync
// @Produce json
// @Success 200 {object} map[string]interface{} "Order import counts"
// @Failure 502 {object} map[string]string "Marketplace unreachable"
// @Router /orders/import [post]
func (h *SyncHandler) ImportOrders(w http.ResponseWriter, r *http.Request) {
	imported, failed, err := h.service.ImportOrders(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, map[string]int{
		"imported": imported,
		"failed":   failed,
	})
}

// handleError maps sync errors to HTTP responses
func (h *SyncHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrTransport):
		response.Error(w, http.StatusBadGateway, "Marketplace unreachable")
	case errors.Is(err, domain.ErrMarketplaceRejected):
		response.Error(w, http.StatusBadGateway, "Marketplace rejected the request")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.Error(w, http.StatusGatewayTimeout, "Sync pass cancelled")
	default:
		h.logger.Error("Internal error in sync handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
