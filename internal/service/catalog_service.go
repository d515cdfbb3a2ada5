package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/notaria4/notaria4/internal/domain"
)

// CatalogStore looks up SAT catalog entries
type CatalogStore interface {
	Ping(ctx context.Context) error
	FindPropertyType(ctx context.Context, code string) (*domain.PropertyType, error)
	ListPropertyTypes(ctx context.Context) ([]domain.PropertyType, error)
	FindPostalCode(ctx context.Context, code string) (*domain.PostalCode, error)
}

// CatalogService checks complement properties against the SAT catalogs.
// Handlers call it after the complement build so that Build stays free of I/O.
type CatalogService struct {
	store CatalogStore
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Ping checks the underlying store
func (s *CatalogService) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return nil
}

// ListPropertyTypes lists the active property types
func (s *CatalogService) ListPropertyTypes(ctx context.Context) ([]domain.PropertyType, error) {
	types, err := s.store.ListPropertyTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return types, nil
}

// GetPropertyType returns an active property type or ErrNotFound
func (s *CatalogService) GetPropertyType(ctx context.Context, code string) (*domain.PropertyType, error) {
	propertyType, err := s.store.FindPropertyType(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if propertyType == nil {
		return nil, ErrNotFound
	}
	return propertyType, nil
}

// CheckProperties verifies that every property type exists and that a known
// postal code belongs to the declared federal entity. The entity may be given
// as its numeric key, its c_Estado code or its name. Unknown postal codes pass.
func (s *CatalogService) CheckProperties(ctx context.Context, properties []domain.PropertyInput) error {
	for i, p := range properties {
		field := fmt.Sprintf("desc_inmuebles[%d]", i)

		code := strings.TrimSpace(p.TipoInmueble)
		if code != "" {
			propertyType, err := s.store.FindPropertyType(ctx, code)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
			}
			if propertyType == nil {
				return domain.NewValidationError(field+".tipo_inmueble", "unknown property type").WithValue(code)
			}
		}

		postal := strings.TrimSpace(p.CodigoPostal)
		if !IsPostalCode(postal) {
			// Shape errors are reported by the complement build.
			continue
		}
		postalCode, err := s.store.FindPostalCode(ctx, postal)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		if postalCode == nil {
			continue
		}
		// Free-form state names that resolve to no federal entity are accepted.
		declared, ok := domain.FederalEntityKey(StripDiacritics(p.Estado))
		if !ok {
			continue
		}
		expected, ok := domain.FederalEntityKey(postalCode.StateKey)
		if ok && declared != expected {
			return domain.NewValidationError(field+".estado", "does not match postal code "+postal).WithValue(p.Estado)
		}
	}
	return nil
}
