package repository

import "github.com/jhoicas/retail-backoffice/internal/domain/entity"

// StockRepository define el puerto de persistencia del agregado Stock
// (incluye sus lotes). Las mutaciones van siempre dentro de una transacción.
type StockRepository interface {
	Create(stock *entity.Stock) error
	// GetByID carga el agregado con sus lotes (sin bloqueo). Nil si no existe.
	GetByID(id string) (*entity.Stock, error)
	// GetForUpdate carga el agregado bloqueando la fila del stock
	// (SELECT FOR UPDATE): serializa los recorridos concurrentes sobre el
	// mismo agregado sin bloquear agregados distintos. Nil si no existe.
	GetForUpdate(id string) (*entity.Stock, error)
	// FindByUnitAndLocation localiza el stock de una unidad en una ubicación.
	FindByUnitAndLocation(organizationID, sellableUnitID, locationID string) (*entity.Stock, error)
	// Update persiste la cabecera del agregado y hace upsert de sus lotes.
	Update(stock *entity.Stock) error
	ListByLocation(organizationID, locationID string, limit, offset int) ([]*entity.Stock, error)
}
