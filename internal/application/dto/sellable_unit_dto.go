package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSellableUnitRequest body para crear un SKU.
type CreateSellableUnitRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	ReorderLevel int64           `json:"reorder_level"`
	UnitMeasure  string          `json:"unit_measure,omitempty"`
}

// UpdateSellableUnitRequest body de actualización parcial.
type UpdateSellableUnitRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	ReorderLevel *int64           `json:"reorder_level,omitempty"`
	UnitMeasure  *string          `json:"unit_measure,omitempty"`
}

// SellableUnitResponse representación de un SKU.
type SellableUnitResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Currency     string          `json:"currency"`
	ReorderLevel int64           `json:"reorder_level"`
	UnitMeasure  string          `json:"unit_measure,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SellableUnitListResponse listado paginado.
type SellableUnitListResponse struct {
	Items []SellableUnitResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
