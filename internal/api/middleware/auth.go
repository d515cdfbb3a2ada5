package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/notaria4/notaria4/internal/service"
)

// Context keys
type contextKey string

const (
	ClientIDKey  contextKey = "client_id"
	RequestIDKey contextKey = "request_id"
)

// AnonymousClient identifies callers when no credentials are configured
const AnonymousClient = "anonymous"

// AuthMiddleware provides authentication middleware
type AuthMiddleware struct {
	authService *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate validates an API key or a bearer token. When neither is
// configured every caller is let through as AnonymousClient.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.authService.Enabled() {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ClientIDKey, AnonymousClient)))
			return
		}

		var clientID string

		// Try API key first
		if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
			if id, err := m.authService.ValidateAPIKey(apiKey); err == nil {
				clientID = id
			}
		}

		// Try Bearer token if no API key
		if clientID == "" {
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				if id, err := m.authService.ValidateToken(strings.TrimPrefix(authHeader, "Bearer ")); err == nil {
					clientID = id
				}
			}
		}

		if clientID == "" {
			writeError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
			return
		}

		ctx := context.WithValue(r.Context(), ClientIDKey, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientID extracts the authenticated client ID from context
func GetClientID(ctx context.Context) string {
	if id, ok := ctx.Value(ClientIDKey).(string); ok {
		return id
	}
	return ""
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
