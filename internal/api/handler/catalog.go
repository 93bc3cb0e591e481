// internal/api/handler/catalog.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/service"
)

// CatalogHandler serves the product catalog: the packages and upsells an
// employer can spend credits on.
type CatalogHandler struct {
	service service.PricingService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc service.PricingService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles the catalog read.
// GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Catalog(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"products": products,
	})
}
