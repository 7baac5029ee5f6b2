package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/money"
)

// Condiciones de un lote. Solo las condiciones vendibles participan en reservas.
const (
	ConditionNew         = "NEW"
	ConditionDamaged     = "DAMAGED"
	ConditionExpired     = "EXPIRED"
	ConditionDefective   = "DEFECTIVE"
	ConditionRefurbished = "REFURBISHED"
	ConditionUsed        = "USED"
)

// IsSellableCondition indica si la condición permite vender el lote.
func IsSellableCondition(condition string) bool {
	switch condition {
	case ConditionNew, ConditionRefurbished, ConditionUsed:
		return true
	}
	return false
}

// IsValidCondition valida que la condición sea una de las conocidas.
func IsValidCondition(condition string) bool {
	switch condition {
	case ConditionNew, ConditionDamaged, ConditionExpired, ConditionDefective,
		ConditionRefurbished, ConditionUsed:
		return true
	}
	return false
}

// Batch representa un lote de recepción de una unidad vendible, propiedad
// exclusiva de un Stock. Quantity es la cantidad recibida original y nunca
// cambia; RemainingQuantity es la cantidad física viva y ReservedQuantity
// lo apartado para transacciones pendientes.
//
// Invariante: 0 <= ReservedQuantity <= RemainingQuantity.
type Batch struct {
	ID                string
	StockID           string
	BatchNumber       string // único dentro del Stock propietario
	Quantity          int64  // cantidad recibida, inmutable
	RemainingQuantity int64
	ReservedQuantity  int64
	Condition         string
	ExpiryDate        *time.Time // opcional; vencido => no reservable
	UnitCost          money.Money
	InsertDate        time.Time // define el orden FIFO
	UpdatedAt         time.Time
	DeletedAt         *time.Time // borrado lógico, solo vía el agregado
}

// NewBatch construye un lote validando cantidad, número de lote y vencimiento.
// El vencimiento, si viene, debe ser estrictamente futuro al momento de crear.
func NewBatch(stockID, batchNumber string, quantity int64, unitCost money.Money, expiryDate *time.Time, condition string, now time.Time) (*Batch, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: la cantidad del lote debe ser >= 1", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(batchNumber) == "" {
		return nil, fmt.Errorf("%w: número de lote vacío", domain.ErrInvalidInput)
	}
	if condition == "" {
		condition = ConditionNew
	}
	if !IsValidCondition(condition) {
		return nil, fmt.Errorf("%w: condición desconocida %q", domain.ErrInvalidInput, condition)
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	if expiryDate != nil && !expiryDate.After(now) {
		return nil, fmt.Errorf("%w: la fecha de vencimiento debe ser futura", domain.ErrInvalidInput)
	}
	return &Batch{
		ID:                uuid.New().String(),
		StockID:           stockID,
		BatchNumber:       batchNumber,
		Quantity:          quantity,
		RemainingQuantity: quantity,
		ReservedQuantity:  0,
		Condition:         condition,
		ExpiryDate:        expiryDate,
		UnitCost:          unitCost,
		InsertDate:        now,
		UpdatedAt:         now,
	}, nil
}

// AvailableQuantity cantidad física no reservada: lo único prometible.
func (b *Batch) AvailableQuantity() int64 {
	return b.RemainingQuantity - b.ReservedQuantity
}

// Reserve aparta qty unidades del lote.
func (b *Batch) Reserve(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad a reservar debe ser > 0", domain.ErrInvalidInput)
	}
	if qty > b.AvailableQuantity() {
		return fmt.Errorf("%w: lote %s disponible=%d solicitado=%d",
			domain.ErrInsufficientAvailable, b.BatchNumber, b.AvailableQuantity(), qty)
	}
	b.ReservedQuantity += qty
	return nil
}

// Release devuelve qty unidades reservadas a disponible.
func (b *Batch) Release(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad a liberar debe ser > 0", domain.ErrInvalidInput)
	}
	if qty > b.ReservedQuantity {
		return fmt.Errorf("%w: lote %s reservado=%d solicitado=%d",
			domain.ErrOverRelease, b.BatchNumber, b.ReservedQuantity, qty)
	}
	b.ReservedQuantity -= qty
	return nil
}

// Consume retira físicamente qty unidades previamente reservadas: descuenta
// ReservedQuantity y RemainingQuantity en la misma cantidad, de modo que el
// invariante reservado <= restante se sostiene en cada paso intermedio.
// El contrato reservar-antes-de-consumir lo garantiza el coordinador de stock.
func (b *Batch) Consume(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad a consumir debe ser > 0", domain.ErrInvalidInput)
	}
	if qty > b.ReservedQuantity {
		return fmt.Errorf("%w: lote %s reservado=%d a consumir=%d",
			domain.ErrOverRelease, b.BatchNumber, b.ReservedQuantity, qty)
	}
	if qty > b.RemainingQuantity {
		return fmt.Errorf("%w: lote %s restante=%d a consumir=%d",
			domain.ErrInsufficientAvailable, b.BatchNumber, b.RemainingQuantity, qty)
	}
	b.ReservedQuantity -= qty
	b.RemainingQuantity -= qty
	return nil
}

// ChangeCondition transición de estado pura; no afecta cantidades.
func (b *Batch) ChangeCondition(newCondition string) error {
	if !IsValidCondition(newCondition) {
		return fmt.Errorf("%w: condición desconocida %q", domain.ErrInvalidInput, newCondition)
	}
	b.Condition = newCondition
	return nil
}

// IsExpired indica si el lote está vencido a la hora dada.
func (b *Batch) IsExpired(now time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return !b.ExpiryDate.After(now)
}

// IsExpiringSoon vence dentro de los próximos daysThreshold días (y aún no venció).
func (b *Batch) IsExpiringSoon(now time.Time, daysThreshold int) bool {
	if b.ExpiryDate == nil || b.IsExpired(now) {
		return false
	}
	limit := now.AddDate(0, 0, daysThreshold)
	return !b.ExpiryDate.After(limit)
}

// IsFullyConsumed no queda cantidad física en el lote.
func (b *Batch) IsFullyConsumed() bool {
	return b.RemainingQuantity == 0
}

// TotalValue valoriza la cantidad restante al costo del lote.
func (b *Batch) TotalValue() money.Money {
	return b.UnitCost.MulInt(b.RemainingQuantity)
}
