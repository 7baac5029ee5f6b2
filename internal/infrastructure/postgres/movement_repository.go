package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// El libro es append-only: este adaptador solo inserta y lista.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del libro de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta una fila del libro. Nunca hay Update/Delete sobre movimientos.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, organization_id, sellable_unit_id, location_id, stock_id,
		                       batch_number, type, quantity, balance_after, reference_number,
		                       created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.OrganizationID, m.SellableUnitID, m.LocationID, m.StockID,
		m.BatchNumber, m.Type, m.Quantity, m.BalanceAfter, m.ReferenceNumber,
		m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListBySellableUnit lista el historial de una unidad, más reciente primero,
// con filtros opcionales de fecha, tipo y referencia.
func (r *MovementRepo) ListBySellableUnit(organizationID, sellableUnitID string, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, organization_id, sellable_unit_id, location_id, stock_id,
		       batch_number, type, quantity, balance_after, reference_number,
		       created_by, created_at
		FROM movements
		WHERE organization_id = $1 AND sellable_unit_id = $2`)

	args := []any{organizationID, sellableUnitID}
	pos := 3
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND created_at >= $%d", pos))
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND created_at < $%d", pos))
		args = append(args, *filter.To)
		pos++
	}
	if filter.Type != "" {
		sb.WriteString(fmt.Sprintf(" AND type = $%d", pos))
		args = append(args, filter.Type)
		pos++
	}
	if filter.ReferenceNumber != "" {
		sb.WriteString(fmt.Sprintf(" AND reference_number = $%d", pos))
		args = append(args, filter.ReferenceNumber)
		pos++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1))
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.SellableUnitID, &m.LocationID,
			&m.StockID, &m.BatchNumber, &m.Type, &m.Quantity, &m.BalanceAfter,
			&m.ReferenceNumber, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
