package dto

import "time"

// CreateLocationRequest body para crear una tienda/bodega.
type CreateLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// UpdateLocationRequest body de actualización parcial.
type UpdateLocationRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

// LocationResponse representación de una ubicación.
type LocationResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LocationListResponse listado paginado.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
