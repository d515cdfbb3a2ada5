package handlers

import (
	"log/slog"
	"net/http"

	"github.com/notaria4/notaria4/internal/domain"
	"github.com/notaria4/notaria4/internal/metrics"
	"github.com/notaria4/notaria4/internal/service"
)

// FiscalHandler handles property transfer tax and retention calculations
type FiscalHandler struct {
	responder
	fiscalService *service.FiscalService
}

// NewFiscalHandler creates a new fiscal handler
func NewFiscalHandler(fiscalService *service.FiscalService, logger *slog.Logger, m *metrics.Metrics) *FiscalHandler {
	return &FiscalHandler{
		responder:     responder{logger: logger, metrics: m},
		fiscalService: fiscalService,
	}
}

// Calculate handles POST /api/v1/fiscal/calculate
func (h *FiscalHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.FiscalCalculationRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.fiscalService.Calculate(&req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.metrics.IncrementFiscalCalculation(result.Taxpayer.String())
	respondJSON(w, http.StatusOK, result)
}
