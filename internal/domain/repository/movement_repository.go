package repository

import (
	"time"

	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
)

// MovementFilter filtros opcionales para listar movimientos.
type MovementFilter struct {
	From            *time.Time
	To              *time.Time
	Type            string
	ReferenceNumber string
	Limit           int
	Offset          int
}

// MovementRepository define el puerto del libro de movimientos.
// Solo append: no existen Update ni Delete sobre filas ya escritas.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	ListBySellableUnit(organizationID, sellableUnitID string, filter MovementFilter) ([]*entity.Movement, error)
}
