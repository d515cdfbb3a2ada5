package handlers

import (
	"log/slog"
	"net/http"

	"github.com/notaria4/notaria4/internal/domain"
	"github.com/notaria4/notaria4/internal/metrics"
	"github.com/notaria4/notaria4/internal/service"
)

// ComplementHandler builds Notarios Públicos complements
type ComplementHandler struct {
	responder
	complementService *service.ComplementService
	catalogService    *service.CatalogService
}

// NewComplementHandler creates a new complement handler
func NewComplementHandler(complementService *service.ComplementService, catalogService *service.CatalogService, logger *slog.Logger, m *metrics.Metrics) *ComplementHandler {
	return &ComplementHandler{
		responder:         responder{logger: logger, metrics: m},
		complementService: complementService,
		catalogService:    catalogService,
	}
}

// Build handles POST /api/v1/complements/notarios
func (h *ComplementHandler) Build(w http.ResponseWriter, r *http.Request) {
	var input domain.ComplementInput
	if !h.decode(w, r, &input) {
		return
	}

	complement, err := h.complementService.Build(&input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	// Catalog lookups run after the build so shape errors surface first
	if err := h.catalogService.CheckProperties(r.Context(), input.DescInmuebles); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.metrics.IncrementComplement()
	respondJSON(w, http.StatusOK, complement)
}
