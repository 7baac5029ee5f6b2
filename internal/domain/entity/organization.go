package entity

import "time"

// Organization representa un tenant del back office (una cadena o comercio).
type Organization struct {
	ID        string
	Name      string
	TaxID     string // NIT u homólogo
	Address   string
	Currency  string // moneda operativa, ISO 4217
	CreatedAt time.Time
	UpdatedAt time.Time
}
