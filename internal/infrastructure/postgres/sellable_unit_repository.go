package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SellableUnitRepository = (*SellableUnitRepo)(nil)

// SellableUnitRepo implementación de SellableUnitRepository sobre PostgreSQL.
type SellableUnitRepo struct {
	q Querier
}

// NewSellableUnitRepository construye el adaptador del catálogo.
func NewSellableUnitRepository(q Querier) *SellableUnitRepo {
	return &SellableUnitRepo{q: q}
}

const sellableUnitColumns = `id, organization_id, sku, name, description, price, cost, currency, reorder_level, unit_measure, created_at, updated_at`

// Create inserta una unidad vendible nueva.
func (r *SellableUnitRepo) Create(u *entity.SellableUnit) error {
	query := `
		INSERT INTO sellable_units (id, organization_id, sku, name, description, price, cost,
		                            currency, reorder_level, unit_measure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		u.ID, u.OrganizationID, u.SKU, u.Name, u.Description, u.Price, u.Cost,
		u.Currency, u.ReorderLevel, u.UnitMeasure, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: SKU %q ya existe en la organización", domain.ErrDuplicate, u.SKU)
		}
		return fmt.Errorf("create sellable unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID. Nil si no existe.
func (r *SellableUnitRepo) GetByID(id string) (*entity.SellableUnit, error) {
	query := `SELECT ` + sellableUnitColumns + ` FROM sellable_units WHERE id = $1 AND deleted_at IS NULL`
	var u entity.SellableUnit
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&u.ID, &u.OrganizationID, &u.SKU, &u.Name, &u.Description, &u.Price, &u.Cost,
		&u.Currency, &u.ReorderLevel, &u.UnitMeasure, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sellable unit: %w", err)
	}
	return &u, nil
}

// Update actualiza los campos editables de la unidad.
func (r *SellableUnitRepo) Update(u *entity.SellableUnit) error {
	query := `
		UPDATE sellable_units
		SET name = $2, description = $3, price = $4, currency = $5,
		    reorder_level = $6, unit_measure = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query,
		u.ID, u.Name, u.Description, u.Price, u.Currency,
		u.ReorderLevel, u.UnitMeasure, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sellable unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo promedio ponderado (tras una recepción,
// dentro de la misma transacción que mutó el stock).
func (r *SellableUnitRepo) UpdateCost(id string, cost decimal.Decimal) error {
	query := `UPDATE sellable_units SET cost = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id, cost)
	if err != nil {
		return fmt.Errorf("update cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrganization lista las unidades de una organización, paginado.
func (r *SellableUnitRepo) ListByOrganization(organizationID string, limit, offset int) ([]*entity.SellableUnit, error) {
	query := `SELECT ` + sellableUnitColumns + `
		FROM sellable_units
		WHERE organization_id = $1 AND deleted_at IS NULL
		ORDER BY sku ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sellable units: %w", err)
	}
	defer rows.Close()

	var list []*entity.SellableUnit
	for rows.Next() {
		var u entity.SellableUnit
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.SKU, &u.Name, &u.Description,
			&u.Price, &u.Cost, &u.Currency, &u.ReorderLevel, &u.UnitMeasure,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sellable unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Delete hace soft delete de la unidad.
func (r *SellableUnitRepo) Delete(id string) error {
	query := `UPDATE sellable_units SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete sellable unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
