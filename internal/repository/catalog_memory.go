package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/notaria4/notaria4/internal/domain"
)

// DefaultPropertyTypes is the built-in subset of c_TipoInmueble
var DefaultPropertyTypes = map[string]string{
	"01": "Terreno",
	"02": "Terreno uso comercial",
	"03": "Construcción habitacional",
	"04": "Construcción uso comercial",
	"05": "Uso mixto",
	"06": "Departamento unidad privativa",
	"07": "Oficina unidad privativa",
	"08": "Local comercial unidad privativa",
	"09": "Bodega",
	"10": "Nave industrial",
}

// DefaultPostalCodes is the built-in subset of c_CodigoPostal served by the office
var DefaultPostalCodes = []domain.PostalCode{
	{Code: "28200", StateKey: "06", Municipality: "Manzanillo"},
	{Code: "28218", StateKey: "06", Municipality: "Manzanillo"},
	{Code: "28219", StateKey: "06", Municipality: "Manzanillo"},
	{Code: "28000", StateKey: "06", Municipality: "Colima"},
	{Code: "06600", StateKey: "09", Municipality: "Cuauhtémoc"},
}

// MemoryCatalog serves the catalogs from memory when no database is configured
type MemoryCatalog struct {
	mu            sync.RWMutex
	propertyTypes map[string]domain.PropertyType
	postalCodes   map[string]domain.PostalCode
}

// NewMemoryCatalog creates a catalog seeded with the built-in entries
func NewMemoryCatalog() *MemoryCatalog {
	c := &MemoryCatalog{
		propertyTypes: make(map[string]domain.PropertyType, len(DefaultPropertyTypes)),
		postalCodes:   make(map[string]domain.PostalCode, len(DefaultPostalCodes)),
	}
	now := time.Now()
	for code, name := range DefaultPropertyTypes {
		c.propertyTypes[code] = domain.PropertyType{Code: code, Name: name, IsActive: true, CreatedAt: now}
	}
	for _, pc := range DefaultPostalCodes {
		c.postalCodes[pc.Code] = pc
	}
	return c
}

// AddPostalCode registers or replaces a postal code
func (c *MemoryCatalog) AddPostalCode(pc domain.PostalCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.postalCodes[pc.Code] = pc
}

// Ping always succeeds
func (c *MemoryCatalog) Ping(ctx context.Context) error {
	return nil
}

// FindPropertyType finds an active property type by its code
func (c *MemoryCatalog) FindPropertyType(ctx context.Context, code string) (*domain.PropertyType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pt, ok := c.propertyTypes[code]
	if !ok || !pt.IsActive {
		return nil, nil
	}
	return &pt, nil
}

// ListPropertyTypes lists all active property types ordered by code
func (c *MemoryCatalog) ListPropertyTypes(ctx context.Context) ([]domain.PropertyType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.PropertyType, 0, len(c.propertyTypes))
	for _, pt := range c.propertyTypes {
		if pt.IsActive {
			out = append(out, pt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// FindPostalCode finds a postal code and its federal entity
func (c *MemoryCatalog) FindPostalCode(ctx context.Context, code string) (*domain.PostalCode, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pc, ok := c.postalCodes[code]
	if !ok {
		return nil, nil
	}
	return &pc, nil
}
