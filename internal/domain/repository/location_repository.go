package repository

import "github.com/jhoicas/retail-backoffice/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Location, error)
	Delete(id string) error
}
