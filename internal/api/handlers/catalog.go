package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notaria4/notaria4/internal/domain"
	"github.com/notaria4/notaria4/internal/service"
)

// CatalogHandler serves the SAT catalogs
type CatalogHandler struct {
	responder
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		responder:      responder{logger: logger},
		catalogService: catalogService,
	}
}

// ListPropertyTypes handles GET /api/v1/catalogs/property-types
func (h *CatalogHandler) ListPropertyTypes(w http.ResponseWriter, r *http.Request) {
	propertyTypes, err := h.catalogService.ListPropertyTypes(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if propertyTypes == nil {
		propertyTypes = []domain.PropertyType{}
	}

	respondJSON(w, http.StatusOK, domain.PropertyTypeListResponse{PropertyTypes: propertyTypes})
}

// GetPropertyType handles GET /api/v1/catalogs/property-types/{code}
func (h *CatalogHandler) GetPropertyType(w http.ResponseWriter, r *http.Request) {
	propertyType, err := h.catalogService.GetPropertyType(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, propertyType)
}
