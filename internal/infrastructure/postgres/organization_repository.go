package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implementación de OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador de organizaciones.
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Create inserta una organización nueva.
func (r *OrganizationRepo) Create(org *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, name, tax_id, address, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		org.ID, org.Name, org.TaxID, org.Address, org.Currency, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: NIT %q ya registrado", domain.ErrDuplicate, org.TaxID)
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID. Nil si no existe.
func (r *OrganizationRepo) GetByID(id string) (*entity.Organization, error) {
	query := `SELECT id, name, tax_id, address, currency, created_at, updated_at
		FROM organizations WHERE id = $1`
	var org entity.Organization
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&org.ID, &org.Name, &org.TaxID, &org.Address, &org.Currency, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &org, nil
}

// List lista organizaciones, paginado.
func (r *OrganizationRepo) List(limit, offset int) ([]*entity.Organization, error) {
	query := `SELECT id, name, tax_id, address, currency, created_at, updated_at
		FROM organizations ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Organization
	for rows.Next() {
		var org entity.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.TaxID, &org.Address, &org.Currency,
			&org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		list = append(list, &org)
	}
	return list, rows.Err()
}
