package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellableUnit representa un SKU vendible del catálogo.
// El stock físico vive por ubicación en el agregado Stock, no aquí.
type SellableUnit struct {
	ID             string
	OrganizationID string
	SKU            string // único por organización
	Name           string
	Description    string
	Price          decimal.Decimal // precio de venta
	Cost           decimal.Decimal // costo promedio ponderado, recalculado en cada recepción
	Currency       string
	ReorderLevel   int64 // umbral de stock bajo para la unidad
	UnitMeasure    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
