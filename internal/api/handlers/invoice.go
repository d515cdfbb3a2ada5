package handlers

import (
	"log/slog"
	"net/http"

	"github.com/notaria4/notaria4/internal/domain"
	"github.com/notaria4/notaria4/internal/metrics"
	"github.com/notaria4/notaria4/internal/service"
)

// InvoiceHandler handles invoice tax computations
type InvoiceHandler struct {
	responder
	invoiceService *service.InvoiceService
	catalogService *service.CatalogService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, catalogService *service.CatalogService, logger *slog.Logger, m *metrics.Metrics) *InvoiceHandler {
	return &InvoiceHandler{
		responder:      responder{logger: logger, metrics: m},
		invoiceService: invoiceService,
		catalogService: catalogService,
	}
}

// Compute handles POST /api/v1/invoices/compute
func (h *InvoiceHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req domain.InvoiceRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.invoiceService.Compute(&req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if req.ComplementoNotarios != nil {
		if err := h.catalogService.CheckProperties(r.Context(), req.ComplementoNotarios.DescInmuebles); err != nil {
			h.handleError(w, r, err)
			return
		}
		h.metrics.IncrementComplement()
	}

	h.metrics.IncrementInvoice(result.Complemento != nil)
	respondJSON(w, http.StatusOK, result)
}
