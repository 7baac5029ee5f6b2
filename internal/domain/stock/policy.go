package stock

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
)

// OrderingPolicy define el orden de recorrido de lotes al reservar/consumir.
// FIFO y FEFO son mutuamente excluyentes por despliegue: la política se fija
// en configuración y aplica a todos los agregados.
type OrderingPolicy string

const (
	// PolicyFIFO recorre por fecha de inserción ascendente: lote más viejo primero.
	PolicyFIFO OrderingPolicy = "FIFO"
	// PolicyFEFO recorre por fecha de vencimiento ascendente, sin vencimiento al final.
	PolicyFEFO OrderingPolicy = "FEFO"
)

// ParseOrderingPolicy valida el valor de configuración.
func ParseOrderingPolicy(s string) (OrderingPolicy, error) {
	switch OrderingPolicy(s) {
	case PolicyFIFO, PolicyFEFO:
		return OrderingPolicy(s), nil
	}
	return "", fmt.Errorf("%w: política de ordenamiento desconocida %q", domain.ErrInvalidInput, s)
}

// Less compara dos lotes según la política. Para FEFO los lotes sin vencimiento
// van al final; a igualdad de vencimiento desempata la fecha de inserción.
func (p OrderingPolicy) Less(a, b *entity.Batch) bool {
	if p == PolicyFEFO {
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return a.InsertDate.Before(b.InsertDate)
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
	}
	return a.InsertDate.Before(b.InsertDate)
}

// Reservable es el predicado único de elegibilidad que consume el recorrido:
// condición vendible y no vencido. Mantenerlo separado deja el algoritmo de
// ordenamiento y la política de elegibilidad testeables por separado.
func Reservable(b *entity.Batch, now time.Time) bool {
	return entity.IsSellableCondition(b.Condition) && !b.IsExpired(now)
}

// eligibleOrdered devuelve los lotes reservables en el orden de la política.
// Copia el slice: el orden de almacenamiento del agregado no se toca.
func eligibleOrdered(batches []*entity.Batch, p OrderingPolicy, now time.Time) []*entity.Batch {
	out := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if Reservable(b, now) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return p.Less(out[i], out[j]) })
	return out
}

// reservedOrdered devuelve los lotes con reserva viva ordenados por inserción
// ascendente: la liberación y el consumo siempre sueltan la reserva más vieja.
func reservedOrdered(batches []*entity.Batch) []*entity.Batch {
	out := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.ReservedQuantity > 0 {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].InsertDate.Before(out[j].InsertDate) })
	return out
}
