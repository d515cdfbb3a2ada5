package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/notaria4/notaria4/internal/domain"
	"github.com/notaria4/notaria4/internal/metrics"
	"github.com/notaria4/notaria4/internal/service"
)

// validate is shared by every handler; validator caches struct metadata and is
// safe for concurrent use
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// responder carries the dependencies shared by handlers for writing errors
type responder struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// decode reads a JSON body into dst and runs the struct-tag validation
func (rs responder) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			field := trimNamespace(fe.Namespace())
			rs.metrics.IncrementValidationFailure(field)
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "failed on " + fe.Tag() + " validation",
				Field: field,
			})
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// handleError maps service errors to HTTP responses
func (rs responder) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := domain.AsValidationError(err); ok {
		rs.metrics.IncrementValidationFailure(verr.Field)
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: verr.Message,
			Field: verr.Field,
			Value: verr.Value,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrCatalogUnavailable):
		rs.logger.Error("catalog unavailable", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusServiceUnavailable, "Catalog unavailable")
	default:
		rs.logger.Error("request failed", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// trimNamespace drops the root struct name from a validator namespace
func trimNamespace(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
