package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/money"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// El agregado se persiste en dos tablas: stocks (cabecera) y batches (lotes).
// Ningún total derivado se guarda; siempre se recomputa desde los lotes cargados.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, organization_id, sellable_unit_id, location_id, last_stocktake_at, created_at, updated_at`

// Create inserta la cabecera del agregado (los lotes van por Update).
func (r *StockRepo) Create(stock *entity.Stock) error {
	query := `
		INSERT INTO stocks (id, organization_id, sellable_unit_id, location_id, last_stocktake_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.OrganizationID, stock.SellableUnitID, stock.LocationID,
		stock.LastStocktakeAt, stock.CreatedAt, stock.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe stock para esa unidad y ubicación", domain.ErrDuplicate)
		}
		return fmt.Errorf("create stock: %w", err)
	}
	return nil
}

// GetByID carga el agregado con sus lotes, sin bloqueo. Nil si no existe.
func (r *StockRepo) GetByID(id string) (*entity.Stock, error) {
	return r.get(`SELECT `+stockColumns+` FROM stocks WHERE id = $1 AND deleted_at IS NULL`, id)
}

// GetForUpdate carga el agregado bloqueando la fila del stock (SELECT FOR UPDATE):
// serializa los recorridos concurrentes sobre el mismo agregado; agregados
// distintos no se bloquean entre sí.
func (r *StockRepo) GetForUpdate(id string) (*entity.Stock, error) {
	return r.get(`SELECT `+stockColumns+` FROM stocks WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id)
}

// FindByUnitAndLocation localiza el stock de una unidad en una ubicación. Nil si no existe.
func (r *StockRepo) FindByUnitAndLocation(organizationID, sellableUnitID, locationID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + `
		FROM stocks
		WHERE organization_id = $1 AND sellable_unit_id = $2 AND location_id = $3 AND deleted_at IS NULL`
	return r.get(query, organizationID, sellableUnitID, locationID)
}

func (r *StockRepo) get(query string, args ...any) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.OrganizationID, &s.SellableUnitID, &s.LocationID,
		&s.LastStocktakeAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	batches, err := r.loadBatches(s.ID)
	if err != nil {
		return nil, err
	}
	s.Batches = batches
	return &s, nil
}

// loadBatches carga los lotes vivos del agregado en orden de inserción.
func (r *StockRepo) loadBatches(stockID string) ([]*entity.Batch, error) {
	query := `
		SELECT id, stock_id, batch_number, quantity, remaining_quantity, reserved_quantity,
		       condition, expiry_date, unit_cost, currency, insert_date, updated_at
		FROM batches
		WHERE stock_id = $1 AND deleted_at IS NULL
		ORDER BY insert_date ASC`
	rows, err := r.q.Query(context.Background(), query, stockID)
	if err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}
	defer rows.Close()

	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		var amount decimal.Decimal
		var currency string
		if err := rows.Scan(&b.ID, &b.StockID, &b.BatchNumber, &b.Quantity,
			&b.RemainingQuantity, &b.ReservedQuantity, &b.Condition,
			&b.ExpiryDate, &amount, &currency, &b.InsertDate, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.UnitCost = money.Money{Amount: amount, Currency: currency}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Update persiste la cabecera y hace upsert de todos los lotes del agregado
// (misma transacción que el recorrido que los mutó).
func (r *StockRepo) Update(stock *entity.Stock) error {
	query := `
		UPDATE stocks SET last_stocktake_at = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.LastStocktakeAt, stock.UpdatedAt); err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	for _, b := range stock.Batches {
		if err := r.upsertBatch(b); err != nil {
			return err
		}
	}
	return nil
}

func (r *StockRepo) upsertBatch(b *entity.Batch) error {
	query := `
		INSERT INTO batches (id, stock_id, batch_number, quantity, remaining_quantity, reserved_quantity,
		                     condition, expiry_date, unit_cost, currency, insert_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id)
		DO UPDATE SET remaining_quantity = EXCLUDED.remaining_quantity,
		              reserved_quantity  = EXCLUDED.reserved_quantity,
		              condition          = EXCLUDED.condition,
		              updated_at         = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.StockID, b.BatchNumber, b.Quantity, b.RemainingQuantity, b.ReservedQuantity,
		b.Condition, b.ExpiryDate, b.UnitCost.Amount, b.UnitCost.Currency, b.InsertDate, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de lote %q", domain.ErrDuplicate, b.BatchNumber)
		}
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// ListByLocation lista los stocks de una ubicación con sus lotes.
func (r *StockRepo) ListByLocation(organizationID, locationID string, limit, offset int) ([]*entity.Stock, error) {
	query := `SELECT ` + stockColumns + `
		FROM stocks
		WHERE organization_id = $1 AND location_id = $2 AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, organizationID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.SellableUnitID, &s.LocationID,
			&s.LastStocktakeAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		batches, err := r.loadBatches(s.ID)
		if err != nil {
			return nil, err
		}
		s.Batches = batches
	}
	return list, nil
}
