package repository

import "github.com/jhoicas/retail-backoffice/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmailAndOrganization(email, organizationID string) (*entity.User, error)
}
