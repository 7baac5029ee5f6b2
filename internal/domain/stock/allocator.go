package stock

import (
	"fmt"
	"time"

	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
)

// Allocation es el resultado de tocar un lote durante un recorrido: cuánto se
// tomó de él y el disponible del agregado inmediatamente después de ese paso.
// El coordinador emite un Movement por cada Allocation.
type Allocation struct {
	Batch        *entity.Batch
	Quantity     int64
	BalanceAfter int64
}

// Reserve asigna totalQty sobre los lotes elegibles del agregado en el orden
// de la política. El pre-chequeo es contra el disponible agregado; si el
// recorrido agota lotes antes de completar la cantidad, eso es una falla de
// consistencia interna (el pre-chequeo debió impedirla) y se reporta como
// ErrInvariantViolation, no como error de negocio.
//
// La mutación es todo-o-nada a nivel de llamada: los errores de invariante se
// detectan antes de que el caller persista, y la transacción que envuelve el
// recorrido descarta cualquier mutación parcial.
func Reserve(s *entity.Stock, totalQty int64, policy OrderingPolicy, now time.Time) ([]Allocation, error) {
	if totalQty <= 0 {
		return nil, fmt.Errorf("%w: cantidad a reservar debe ser > 0", domain.ErrInvalidInput)
	}
	if totalQty > s.AvailableStock(now) {
		return nil, fmt.Errorf("%w: disponible=%d solicitado=%d",
			domain.ErrInsufficientStock, s.AvailableStock(now), totalQty)
	}

	remaining := totalQty
	var allocations []Allocation
	for _, b := range eligibleOrdered(s.Batches, policy, now) {
		if remaining == 0 {
			break
		}
		take := min(remaining, b.AvailableQuantity())
		if take <= 0 {
			continue
		}
		if err := b.Reserve(take); err != nil {
			return nil, err
		}
		b.UpdatedAt = now
		remaining -= take
		allocations = append(allocations, Allocation{
			Batch:        b,
			Quantity:     take,
			BalanceAfter: s.AvailableStock(now),
		})
	}
	if remaining > 0 {
		return nil, fmt.Errorf("%w: el recorrido no cubrió %d unidades tras pasar el pre-chequeo (stock %s)",
			domain.ErrInvariantViolation, remaining, s.ID)
	}
	s.UpdatedAt = now
	return allocations, nil
}

// Release devuelve totalQty unidades reservadas a disponible, soltando primero
// la reserva del lote más viejo. Pre-chequeo contra el reservado agregado.
func Release(s *entity.Stock, totalQty int64, now time.Time) ([]Allocation, error) {
	if totalQty <= 0 {
		return nil, fmt.Errorf("%w: cantidad a liberar debe ser > 0", domain.ErrInvalidInput)
	}
	if totalQty > s.ReservedStock() {
		return nil, fmt.Errorf("%w: reservado=%d solicitado=%d",
			domain.ErrOverRelease, s.ReservedStock(), totalQty)
	}

	remaining := totalQty
	var allocations []Allocation
	for _, b := range reservedOrdered(s.Batches) {
		if remaining == 0 {
			break
		}
		take := min(remaining, b.ReservedQuantity)
		if err := b.Release(take); err != nil {
			return nil, err
		}
		b.UpdatedAt = now
		remaining -= take
		allocations = append(allocations, Allocation{
			Batch:        b,
			Quantity:     take,
			BalanceAfter: s.AvailableStock(now),
		})
	}
	if remaining > 0 {
		return nil, fmt.Errorf("%w: el recorrido no liberó %d unidades tras pasar el pre-chequeo (stock %s)",
			domain.ErrInvariantViolation, remaining, s.ID)
	}
	s.UpdatedAt = now
	return allocations, nil
}

// Consume retira físicamente totalQty unidades previamente reservadas (venta
// completada): por cada lote descuenta reservado y restante en la misma
// cantidad, empezando por la reserva más vieja. Consumir más que el reservado
// agregado falla con ErrOverRelease antes de mutar nada.
func Consume(s *entity.Stock, totalQty int64, now time.Time) ([]Allocation, error) {
	if totalQty <= 0 {
		return nil, fmt.Errorf("%w: cantidad a consumir debe ser > 0", domain.ErrInvalidInput)
	}
	if totalQty > s.ReservedStock() {
		return nil, fmt.Errorf("%w: reservado=%d a consumir=%d",
			domain.ErrOverRelease, s.ReservedStock(), totalQty)
	}

	remaining := totalQty
	var allocations []Allocation
	for _, b := range reservedOrdered(s.Batches) {
		if remaining == 0 {
			break
		}
		take := min(remaining, b.ReservedQuantity)
		if err := b.Consume(take); err != nil {
			return nil, err
		}
		b.UpdatedAt = now
		remaining -= take
		allocations = append(allocations, Allocation{
			Batch:        b,
			Quantity:     take,
			BalanceAfter: s.AvailableStock(now),
		})
	}
	if remaining > 0 {
		return nil, fmt.Errorf("%w: el recorrido no consumió %d unidades tras pasar el pre-chequeo (stock %s)",
			domain.ErrInvariantViolation, remaining, s.ID)
	}
	s.UpdatedAt = now
	return allocations, nil
}
