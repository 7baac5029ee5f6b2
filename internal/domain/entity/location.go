package entity

import "time"

// Location representa una tienda o bodega donde vive inventario físico.
type Location struct {
	ID             string
	OrganizationID string
	Name           string
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
