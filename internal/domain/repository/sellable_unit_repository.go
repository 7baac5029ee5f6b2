package repository

import (
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SellableUnitRepository define el puerto de persistencia para SellableUnit (DIP).
type SellableUnitRepository interface {
	Create(unit *entity.SellableUnit) error
	GetByID(id string) (*entity.SellableUnit, error)
	Update(unit *entity.SellableUnit) error
	// UpdateCost actualiza el costo promedio ponderado tras una recepción.
	UpdateCost(id string, cost decimal.Decimal) error
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.SellableUnit, error)
	Delete(id string) error
}
