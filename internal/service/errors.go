package service

import "errors"

var (
	// ErrNotFound is returned when a catalog entry is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidCredentials is returned when authentication fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimitExceeded is returned when rate limit is exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrCatalogUnavailable is returned when the catalog store cannot be queried
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
