package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantityRequest body para reserve/release/consume sobre un stock.
type QuantityRequest struct {
	Quantity        int64  `json:"quantity"`
	ReferenceNumber string `json:"reference_number"`
}

// AddBatchRequest body para POST /api/stocks/receipts.
// stock_id es opcional: si viene vacío el stock se resuelve (o crea) por
// sellable_unit_id + location_id.
type AddBatchRequest struct {
	StockID         string          `json:"stock_id,omitempty"`
	SellableUnitID  string          `json:"sellable_unit_id,omitempty"`
	LocationID      string          `json:"location_id,omitempty"`
	BatchNumber     string          `json:"batch_number"`
	Quantity        int64           `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Currency        string          `json:"currency"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	Condition       string          `json:"condition,omitempty"` // default NEW
	ReferenceNumber string          `json:"reference_number"`
}

// AdjustBatchRequest body para la reconciliación de conteo de un lote.
type AdjustBatchRequest struct {
	CountedQuantity int64  `json:"counted_quantity"`
	ReferenceNumber string `json:"reference_number"`
}

// MoveBatchConditionRequest body para el cambio de condición de un lote.
type MoveBatchConditionRequest struct {
	Condition       string `json:"condition"`
	ReferenceNumber string `json:"reference_number,omitempty"`
}

// StockSnapshotResponse totales derivados del agregado en un instante.
type StockSnapshotResponse struct {
	StockID         string     `json:"stock_id"`
	SellableUnitID  string     `json:"sellable_unit_id"`
	LocationID      string     `json:"location_id"`
	GoodStock       int64      `json:"good_stock"`
	DamagedStock    int64      `json:"damaged_stock"`
	ExpiredStock    int64      `json:"expired_stock"`
	ReservedStock   int64      `json:"reserved_stock"`
	AvailableStock  int64      `json:"available_stock"`
	TotalStock      int64      `json:"total_stock"`
	LastStocktakeAt *time.Time `json:"last_stocktake_at,omitempty"`
}

// BatchResponse representación de un lote en respuestas.
type BatchResponse struct {
	ID                string          `json:"id"`
	BatchNumber       string          `json:"batch_number"`
	Quantity          int64           `json:"quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	ReservedQuantity  int64           `json:"reserved_quantity"`
	AvailableQuantity int64           `json:"available_quantity"`
	Condition         string          `json:"condition"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Currency          string          `json:"currency"`
	InsertDate        time.Time       `json:"insert_date"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID              string    `json:"id"`
	SellableUnitID  string    `json:"sellable_unit_id"`
	LocationID      string    `json:"location_id,omitempty"`
	StockID         string    `json:"stock_id"`
	BatchNumber     string    `json:"batch_number,omitempty"`
	Type            string    `json:"type"`
	Quantity        int64     `json:"quantity"`
	BalanceAfter    int64     `json:"balance_after"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// LowStockItemResponse stock en o bajo el nivel de reorden de su unidad.
type LowStockItemResponse struct {
	StockID        string `json:"stock_id"`
	SellableUnitID string `json:"sellable_unit_id"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Available      int64  `json:"available"`
	ReorderLevel   int64  `json:"reorder_level"`
}
