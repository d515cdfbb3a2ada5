package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/notaria4/notaria4/internal/domain"
)

// CatalogRepository serves the SAT property-type and postal-code catalogs from Postgres
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository opens the catalog database
func NewCatalogRepository(databaseURL string) (*CatalogRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Catalog reads are small and read-only
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &CatalogRepository{db: db}, nil
}

// NewCatalogRepositoryWithDB creates a catalog repository over an existing connection
func NewCatalogRepositoryWithDB(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Close closes the database connection
func (r *CatalogRepository) Close() error {
	return r.db.Close()
}

// Ping checks the database connection
func (r *CatalogRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FindPropertyType finds an active property type by its code
func (r *CatalogRepository) FindPropertyType(ctx context.Context, code string) (*domain.PropertyType, error) {
	query := `
		SELECT code, name, is_active, created_at
		FROM property_types
		WHERE code = $1 AND is_active = true
	`

	var propertyType domain.PropertyType
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&propertyType.Code,
		&propertyType.Name,
		&propertyType.IsActive,
		&propertyType.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property type: %w", err)
	}

	return &propertyType, nil
}

// ListPropertyTypes lists all active property types
func (r *CatalogRepository) ListPropertyTypes(ctx context.Context) ([]domain.PropertyType, error) {
	query := `
		SELECT code, name, is_active, created_at
		FROM property_types
		WHERE is_active = true
		ORDER BY code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list property types: %w", err)
	}
	defer rows.Close()

	var propertyTypes []domain.PropertyType
	for rows.Next() {
		var propertyType domain.PropertyType
		if err := rows.Scan(
			&propertyType.Code,
			&propertyType.Name,
			&propertyType.IsActive,
			&propertyType.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan property type: %w", err)
		}
		propertyTypes = append(propertyTypes, propertyType)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property types: %w", err)
	}

	return propertyTypes, nil
}

// FindPostalCode finds a postal code and its federal entity
func (r *CatalogRepository) FindPostalCode(ctx context.Context, code string) (*domain.PostalCode, error) {
	query := `
		SELECT code, state_key, COALESCE(municipality, '')
		FROM postal_codes
		WHERE code = $1
	`

	var postalCode domain.PostalCode
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&postalCode.Code,
		&postalCode.StateKey,
		&postalCode.Municipality,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find postal code: %w", err)
	}

	return &postalCode, nil
}
