package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-backoffice/internal/application/dto"
	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SellableUnitUseCase casos de uso CRUD para el catálogo de SKUs.
type SellableUnitUseCase struct {
	repo repository.SellableUnitRepository
}

// NewSellableUnitUseCase construye el caso de uso.
func NewSellableUnitUseCase(repo repository.SellableUnitRepository) *SellableUnitUseCase {
	return &SellableUnitUseCase{repo: repo}
}

// Create crea un SKU. El costo inicia en cero y lo recalcula cada recepción.
func (uc *SellableUnitUseCase) Create(organizationID string, in dto.CreateSellableUnitRequest) (*dto.SellableUnitResponse, error) {
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: sku y nombre obligatorios", domain.ErrInvalidInput)
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	currency := in.Currency
	if currency == "" {
		currency = "COP"
	}
	now := time.Now()
	unit := &entity.SellableUnit{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		SKU:            in.SKU,
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		Cost:           decimal.Zero,
		Currency:       currency,
		ReorderLevel:   in.ReorderLevel,
		UnitMeasure:    in.UnitMeasure,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(unit); err != nil {
		return nil, err
	}
	return toSellableUnitResponse(unit), nil
}

// GetByID obtiene un SKU por ID, validando tenencia.
func (uc *SellableUnitUseCase) GetByID(organizationID, id string) (*dto.SellableUnitResponse, error) {
	unit, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, nil
	}
	if unit.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	return toSellableUnitResponse(unit), nil
}

// Update actualización parcial de un SKU.
func (uc *SellableUnitUseCase) Update(organizationID, id string, in dto.UpdateSellableUnitRequest) (*dto.SellableUnitResponse, error) {
	unit, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, nil
	}
	if unit.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		unit.Name = *in.Name
	}
	if in.Description != nil {
		unit.Description = *in.Description
	}
	if in.Price != nil {
		unit.Price = *in.Price
	}
	if in.ReorderLevel != nil {
		unit.ReorderLevel = *in.ReorderLevel
	}
	if in.UnitMeasure != nil {
		unit.UnitMeasure = *in.UnitMeasure
	}
	unit.UpdatedAt = time.Now()
	if err := uc.repo.Update(unit); err != nil {
		return nil, err
	}
	return toSellableUnitResponse(unit), nil
}

// List lista SKUs por organización con paginación.
func (uc *SellableUnitUseCase) List(organizationID string, limit, offset int) (*dto.SellableUnitListResponse, error) {
	list, err := uc.repo.ListByOrganization(organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SellableUnitResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toSellableUnitResponse(u))
	}
	return &dto.SellableUnitListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un SKU por ID.
func (uc *SellableUnitUseCase) Delete(organizationID, id string) error {
	unit, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}
	if unit.OrganizationID != organizationID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toSellableUnitResponse(u *entity.SellableUnit) *dto.SellableUnitResponse {
	if u == nil {
		return nil
	}
	return &dto.SellableUnitResponse{
		ID:           u.ID,
		SKU:          u.SKU,
		Name:         u.Name,
		Description:  u.Description,
		Price:        u.Price,
		Cost:         u.Cost,
		Currency:     u.Currency,
		ReorderLevel: u.ReorderLevel,
		UnitMeasure:  u.UnitMeasure,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
