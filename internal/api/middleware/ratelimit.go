package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/notaria4/notaria4/internal/service"
)

// RateLimitMiddleware provides rate limiting middleware
type RateLimitMiddleware struct {
	rateLimitService *service.RateLimitService
	dailyLimit       int
	monthlyLimit     int
	logger           *slog.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware. A nil service
// disables limiting.
func NewRateLimitMiddleware(rateLimitService *service.RateLimitService, dailyLimit, monthlyLimit int, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		dailyLimit:       dailyLimit,
		monthlyLimit:     monthlyLimit,
		logger:           logger,
	}
}

// RateLimit checks and enforces rate limits per authenticated client
func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := GetClientID(r.Context())
		if m.rateLimitService == nil || clientID == "" {
			next.ServeHTTP(w, r)
			return
		}

		result, err := m.rateLimitService.CheckAndIncrement(r.Context(), clientID, m.dailyLimit, m.monthlyLimit)
		if err != nil {
			// Redis outages do not block tax computations
			m.logger.Warn("rate limit check failed", "client_id", clientID, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Daily-Limit", strconv.Itoa(result.DailyLimit))
		w.Header().Set("X-RateLimit-Daily-Used", strconv.Itoa(result.DailyUsed))
		w.Header().Set("X-RateLimit-Monthly-Limit", strconv.Itoa(result.MonthlyLimit))
		w.Header().Set("X-RateLimit-Monthly-Used", strconv.Itoa(result.MonthlyUsed))

		if !result.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfterSecs))
			writeError(w, http.StatusTooManyRequests, service.ErrRateLimitExceeded.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
