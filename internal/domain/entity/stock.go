package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/money"
)

// Stock es la raíz de agregado que posee los lotes de una unidad vendible en
// una ubicación. Único por (organización, unidad vendible, ubicación).
//
// Todos los totales (bueno, dañado, vencido, reservado, disponible) se derivan
// de los lotes en cada consulta; ningún contador agregado se persiste, así no
// hay deriva entre un contador mutable y los lotes que lo respaldan.
type Stock struct {
	ID              string
	OrganizationID  string
	SellableUnitID  string
	LocationID      string
	Batches         []*Batch
	LastStocktakeAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// NewStock crea el agregado vacío; se materializa con la primera recepción.
func NewStock(organizationID, sellableUnitID, locationID string, now time.Time) (*Stock, error) {
	if organizationID == "" || sellableUnitID == "" || locationID == "" {
		return nil, fmt.Errorf("%w: organización, unidad vendible y ubicación son obligatorios", domain.ErrInvalidInput)
	}
	return &Stock{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		SellableUnitID: sellableUnitID,
		LocationID:     locationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// GoodStock suma lo restante de lotes en condición vendible y sin vencer.
func (s *Stock) GoodStock(now time.Time) int64 {
	var total int64
	for _, b := range s.Batches {
		if IsSellableCondition(b.Condition) && !b.IsExpired(now) {
			total += b.RemainingQuantity
		}
	}
	return total
}

// DamagedStock suma lo restante de lotes dañados o defectuosos.
func (s *Stock) DamagedStock() int64 {
	var total int64
	for _, b := range s.Batches {
		if b.Condition == ConditionDamaged || b.Condition == ConditionDefective {
			total += b.RemainingQuantity
		}
	}
	return total
}

// ExpiredStock suma lo restante de lotes vencidos por fecha o marcados EXPIRED.
func (s *Stock) ExpiredStock(now time.Time) int64 {
	var total int64
	for _, b := range s.Batches {
		if b.Condition == ConditionExpired || (IsSellableCondition(b.Condition) && b.IsExpired(now)) {
			total += b.RemainingQuantity
		}
	}
	return total
}

// ReservedStock suma lo reservado en todos los lotes.
func (s *Stock) ReservedStock() int64 {
	var total int64
	for _, b := range s.Batches {
		total += b.ReservedQuantity
	}
	return total
}

// TotalStock = bueno + dañado + vencido.
func (s *Stock) TotalStock(now time.Time) int64 {
	return s.GoodStock(now) + s.DamagedStock() + s.ExpiredStock(now)
}

// AvailableStock = bueno - reservado: lo único prometible a una solicitud nueva.
func (s *Stock) AvailableStock(now time.Time) int64 {
	return s.GoodStock(now) - s.ReservedStock()
}

// IsOutOfStock sin disponible.
func (s *Stock) IsOutOfStock(now time.Time) bool {
	return s.AvailableStock(now) == 0
}

// IsLowStock disponible por debajo (o en) el nivel de reorden, sin llegar a cero.
func (s *Stock) IsLowStock(reorderLevel int64, now time.Time) bool {
	available := s.AvailableStock(now)
	return available > 0 && available <= reorderLevel
}

// ExpiredBatches lotes vencidos a la hora dada.
func (s *Stock) ExpiredBatches(now time.Time) []*Batch {
	var out []*Batch
	for _, b := range s.Batches {
		if b.IsExpired(now) {
			out = append(out, b)
		}
	}
	return out
}

// ExpiringSoonBatches lotes que vencen dentro del umbral de días.
func (s *Stock) ExpiringSoonBatches(now time.Time, daysThreshold int) []*Batch {
	var out []*Batch
	for _, b := range s.Batches {
		if b.IsExpiringSoon(now, daysThreshold) {
			out = append(out, b)
		}
	}
	return out
}

// FindBatch localiza un lote por ID dentro del agregado.
func (s *Stock) FindBatch(batchID string) *Batch {
	for _, b := range s.Batches {
		if b.ID == batchID {
			return b
		}
	}
	return nil
}

// FindBatchByNumber localiza un lote por número de lote.
func (s *Stock) FindBatchByNumber(batchNumber string) *Batch {
	for _, b := range s.Batches {
		if b.BatchNumber == batchNumber {
			return b
		}
	}
	return nil
}

// AddBatch valida unicidad del número de lote dentro del Stock, construye el
// lote y lo agrega al agregado.
func (s *Stock) AddBatch(batchNumber string, quantity int64, unitCost money.Money, expiryDate *time.Time, condition string, now time.Time) (*Batch, error) {
	if s.FindBatchByNumber(batchNumber) != nil {
		return nil, fmt.Errorf("%w: número de lote %q ya existe en este stock", domain.ErrDuplicate, batchNumber)
	}
	batch, err := NewBatch(s.ID, batchNumber, quantity, unitCost, expiryDate, condition, now)
	if err != nil {
		return nil, err
	}
	s.Batches = append(s.Batches, batch)
	s.UpdatedAt = now
	return batch, nil
}

// MoveBatchToCondition cambia la condición de un lote sin tocar cantidades;
// así el stock dañado/vencido sale de GoodStock sin descartar historia.
func (s *Stock) MoveBatchToCondition(batchID, newCondition string, now time.Time) (*Batch, error) {
	batch := s.FindBatch(batchID)
	if batch == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, batchID)
	}
	if err := batch.ChangeCondition(newCondition); err != nil {
		return nil, err
	}
	batch.UpdatedAt = now
	s.UpdatedAt = now
	return batch, nil
}

// AdjustBatchQuantity fija la cantidad restante de un lote al valor contado en
// una reconciliación física. Devuelve el delta aplicado (contado - anterior).
// No puede dejar el restante por debajo de lo reservado.
func (s *Stock) AdjustBatchQuantity(batchID string, countedQuantity int64, now time.Time) (int64, *Batch, error) {
	batch := s.FindBatch(batchID)
	if batch == nil {
		return 0, nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, batchID)
	}
	if countedQuantity < 0 {
		return 0, nil, fmt.Errorf("%w: cantidad contada negativa", domain.ErrInvalidInput)
	}
	if countedQuantity < batch.ReservedQuantity {
		return 0, nil, fmt.Errorf("%w: cantidad contada %d menor que lo reservado %d del lote %s",
			domain.ErrConflict, countedQuantity, batch.ReservedQuantity, batch.BatchNumber)
	}
	delta := countedQuantity - batch.RemainingQuantity
	batch.RemainingQuantity = countedQuantity
	batch.UpdatedAt = now
	s.UpdatedAt = now
	return delta, batch, nil
}

// RecordStocktake registra la fecha del conteo físico. No altera cantidades:
// una reconciliación real pasa por AdjustBatchQuantity con su movimiento
// ADJUSTMENT explícito.
func (s *Stock) RecordStocktake(now time.Time) {
	t := now
	s.LastStocktakeAt = &t
	s.UpdatedAt = now
}
