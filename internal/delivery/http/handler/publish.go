package handler

import (
	"errors"
	"net/http"

	"github.com/Pesokrava/marketplace_sync/internal/delivery/http/request"
	"github.com/Pesokrava/marketplace_sync/internal/delivery/http/response"
	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
	"github.com/Pesokrava/marketplace_sync/internal/usecase/publish"
)

// PublishHandler handles HTTP requests for publishing refined products
type PublishHandler struct {
	service *publish.Service
	logger  *logger.Logger
}

// NewPublishHandler creates a new publish handler
func NewPublishHandler(service *publish.Service, log *logger.Logger) *PublishHandler {
	return &PublishHandler{
		service: service,
		logger:  log,
	}
}

// Publish handles POST /api/v1/publish
// @Summary Publish a refined product to the marketplace
// @Description Create a new marketplace listing from a refined product description
// @Tags Publish
// @Accept json
// @Produce json
// @Param description body publish.RefinedDescription true "Refined product description"
// @Success 200 {object} map[string]interface{} "Publish outcome"
// @Failure 400 {object} map[string]string "Invalid description"
// @Failure 502 {object} map[string]interface{} "Marketplace rejected the listing"
// @Router /publish [post]
func (h *PublishHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var desc publish.RefinedDescription
	if err := request.DecodeJSON(r, &desc); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.service.Publish(r.Context(), desc)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			response.Error(w, http.StatusBadRequest, outcome.Message)
		case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrMarketplaceRejected):
			response.JSON(w, http.StatusBadGateway, outcome)
		default:
			h.logger.Error("Internal error in publish handler", err)
			response.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	response.Success(w, outcome)
}
