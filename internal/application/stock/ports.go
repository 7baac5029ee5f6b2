package stock

import (
	"context"

	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del motor de reservas:
// o se persisten todas las mutaciones de lotes y todos los movimientos de una
// operación, o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movementRepo repository.MovementRepository,
		unitRepo repository.SellableUnitRepository,
	) error) error
}
