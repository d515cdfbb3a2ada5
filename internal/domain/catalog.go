package domain

import "time"

// PropertyType is an entry of the SAT c_TipoInmueble catalog
type PropertyType struct {
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PostalCode maps a postal code to its federal entity key (c_Estado)
type PostalCode struct {
	Code         string `json:"code" db:"code"`
	StateKey     string `json:"state_key" db:"state_key"`
	Municipality string `json:"municipality,omitempty" db:"municipality"`
}

// PropertyTypeListResponse represents the response for listing property types
type PropertyTypeListResponse struct {
	PropertyTypes []PropertyType `json:"property_types"`
}
