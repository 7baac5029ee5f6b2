package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-backoffice/internal/application/dto"
	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/money"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
	"github.com/jhoicas/retail-backoffice/internal/domain/stock"
	"github.com/jhoicas/retail-backoffice/pkg/logger"
)

// Coordinator es el motor de reservas: la única puerta de entrada para mutar
// un agregado Stock. Cada operación mutadora corre en una transacción
// (TxRunner) con la fila del stock bloqueada (GetForUpdate), de modo que los
// recorridos de lotes sobre un mismo agregado quedan serializados y agregados
// distintos nunca se bloquean entre sí. Cada cambio de estado emite su
// Movement con el disponible resultante.
type Coordinator struct {
	txRunner     TxRunner
	stockRepo    repository.StockRepository    // lecturas fuera de transacción
	movementRepo repository.MovementRepository // lecturas fuera de transacción
	unitRepo     repository.SellableUnitRepository
	policy       stock.OrderingPolicy
	clock        domain.Clock
	log          *logger.Logger
}

// NewCoordinator construye el coordinador con la política de ordenamiento del
// despliegue (FIFO o FEFO, fija por configuración).
func NewCoordinator(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	movementRepo repository.MovementRepository,
	unitRepo repository.SellableUnitRepository,
	policy stock.OrderingPolicy,
	clock domain.Clock,
	log *logger.Logger,
) *Coordinator {
	return &Coordinator{
		txRunner:     txRunner,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		unitRepo:     unitRepo,
		policy:       policy,
		clock:        clock,
		log:          log,
	}
}

// QuantityInput entrada común de reserve/release/consume.
type QuantityInput struct {
	OrganizationID  string
	UserID          string
	StockID         string
	Quantity        int64
	ReferenceNumber string // venta/orden que origina la operación
}

func (in QuantityInput) validate() error {
	if in.OrganizationID == "" || in.StockID == "" {
		return fmt.Errorf("%w: organización y stock son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser > 0", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ReferenceNumber) == "" {
		return fmt.Errorf("%w: número de referencia obligatorio", domain.ErrInvalidInput)
	}
	return nil
}

// ReserveStock aparta in.Quantity unidades del stock recorriendo los lotes en
// el orden de la política. Falla con ErrInsufficientStock si el disponible
// agregado no alcanza; en ese caso ningún lote queda tocado.
func (c *Coordinator) ReserveStock(ctx context.Context, in QuantityInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return c.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movementRepo repository.MovementRepository,
		_ repository.SellableUnitRepository,
	) error {
		s, err := c.lockStock(stockRepo, in.OrganizationID, in.StockID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		allocations, err := stock.Reserve(s, in.Quantity, c.policy, now)
		if err != nil {
			c.reportIfInvariant(err, s.ID, in.Quantity)
			return err
		}
		if err := stockRepo.Update(s); err != nil {
			return err
		}
		return c.emitAllocations(movementRepo, s, allocations,
			entity.MovementTypeRESERVATION, -1, in, now)
	})
}

// ReleaseStock devuelve unidades reservadas a disponible (reserva más vieja
// primero). Falla con ErrOverRelease si se pide liberar más que lo reservado.
func (c *Coordinator) ReleaseStock(ctx context.Context, in QuantityInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return c.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movementRepo repository.MovementRepository,
		_ repository.SellableUnitRepository,
	) error {
		s, err := c.lockStock(stockRepo, in.OrganizationID, in.StockID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		allocations, err := stock.Release(s, in.Quantity, now)
		if err != nil {
			c.reportIfInvariant(err, s.ID, in.Quantity)
			return err
		}
		if err := stockRepo.Update(s); err != nil {
			return err
		}
		return c.emitAllocations(movementRepo, s, allocations,
			entity.MovementTypeRELEASE, +1, in, now)
	})
}

// ConsumeStock convierte una reserva en retiro físico al completarse la venta:
// descuenta reservado y restante por la misma cantidad, lote a lote. El caller
// debió reservar antes la misma cantidad bajo la misma referencia.
func (c *Coordinator) ConsumeStock(ctx context.Context, in QuantityInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return c.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movementRepo repository.MovementRepository,
		_ repository.SellableUnitRepository,
	) error {
		s, err := c.lockStock(stockRepo, in.OrganizationID, in.StockID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		allocations, err := stock.Consume(s, in.Quantity, now)
		if err != nil {
			c.reportIfInvariant(err, s.ID, in.Quantity)
			return err
		}
		if err := stockRepo.Update(s); err != nil {
			return err
		}
		return c.emitAllocations(movementRepo, s, allocations,
			entity.MovementTypeCONSUMPTION, -1, in, now)
	})
}

// AddBatchInput entrada para recibir un lote. Si StockID viene vacío se
// localiza (o crea) el stock por unidad vendible y ubicación: el agregado se
// materializa con la primera recepción.
type AddBatchInput struct {
	OrganizationID  string
	UserID          string
	StockID         string
	SellableUnitID  string
	LocationID      string
	BatchNumber     string
	Quantity        int64
	UnitCost        money.Money
	ExpiryDate      *time.Time
	Condition       string
	ReferenceNumber string // orden de compra u homólogo
}

// AddBatch recibe un lote: valida unicidad del número de lote dentro del
// stock, recalcula el costo promedio ponderado de la unidad y emite el
// movimiento RECEIPT. Devuelve el ID del lote creado.
func (c *Coordinator) AddBatch(ctx context.Context, in AddBatchInput) (string, error) {
	if in.OrganizationID == "" {
		return "", fmt.Errorf("%w: organización obligatoria", domain.ErrInvalidInput)
	}
	if in.StockID == "" && (in.SellableUnitID == "" || in.LocationID == "") {
		return "", fmt.Errorf("%w: indicar stock_id o unidad vendible + ubicación", domain.ErrInvalidInput)
	}
	var batchID string
	err := c.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movementRepo repository.MovementRepository,
		unitRepo repository.SellableUnitRepository,
	) error {
		now := c.clock.Now()
		s, created, err := c.resolveStock(stockRepo, in, now)
		if err != nil {
			return err
		}

		prevQty := s.TotalStock(now)
		batch, err := s.AddBatch(in.BatchNumber, in.Quantity, in.UnitCost, in.ExpiryDate, in.Condition, now)
		if err != nil {
			return err
		}

		// Costo promedio ponderado de la unidad, recalculado en cada recepción.
		unit, err := unitRepo.GetByID(s.SellableUnitID)
		if err != nil {
			return err
		}
		if unit == nil || unit.OrganizationID != in.OrganizationID {
			return fmt.Errorf("%w: unidad vendible %s", domain.ErrNotFound, s.SellableUnitID)
		}
		newCost := stock.AverageCost(prevQty, unit.Cost, in.Quantity, in.UnitCost.Amount)
		if err := unitRepo.UpdateCost(unit.ID, newCost); err != nil {
			return err
		}

		if created {
			if err := stockRepo.Create(s); err != nil {
				return err
			}
		}
		if err := stockRepo.Update(s); err != nil {
			return err
		}
		batchID = batch.ID
		return movementRepo.Create(&entity.Movement{
			ID:              uuid.New().String(),
			OrganizationID:  s.OrganizationID,
			SellableUnitID:  s.SellableUnitID,
			LocationID:      s.LocationID,
			StockID:         s.ID,
			BatchNumber:     batch.BatchNumber,
			Type:            entity.MovementTypeRECEIPT,
			Quantity:        in.Quantity,
			BalanceAfter:    s.AvailableStock(now),
			ReferenceNumber: in.ReferenceNumber,
			CreatedBy:       in.UserID,
			CreatedAt:       now,
		})
	})
	if err != nil {
		return "", err
	}
	return batchID, nil
}

// AdjustBatchInput entrada para la reconciliación de un conteo físico.
type AdjustBatchInput struct {
	OrganizationID  string
	UserID          string
	StockID         string
	BatchID         string
	CountedQuantity int64
	ReferenceNumber string // acta de conteo
}

// AdjustBatchQuantity fija la cantidad restante de un lote al valor contado y
// deja el movimiento ADJUSTMENT con el delta firmado. Es la única vía para
// corregir cantidades: RecordStocktake jamás las toca implícitamente.
func (c *Coordinator) AdjustBatchQuantity(ctx context.Context, in AdjustBatchInput) error {
	if in.OrganizationID == "" || in.StockID == "" || in.BatchID == "" {
		return fmt.Errorf("%w: organización, stock y lote son obligatorios", domain.ErrInvalidInput)
	}
	return c.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movementRepo repository.MovementRepository,
		_ repository.SellableUnitRepository,
	) error {
		s, err := c.lockStock(stockRepo, in.OrganizationID, in.StockID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		delta, batch, err := s.AdjustBatchQuantity(in.BatchID, in.CountedQuantity, now)
		if err != nil {
			return err
		}
		if err := stockRepo.Update(s); err != nil {
			return err
		}
		return movementRepo.Create(&entity.Movement{
			ID:              uuid.New().String(),
			OrganizationID:  s.OrganizationID,
			SellableUnitID:  s.SellableUnitID,
			LocationID:      s.LocationID,
			StockID:         s.ID,
			BatchNumber:     batch.BatchNumber,
			Type:            entity.MovementTypeADJUSTMENT,
			Quantity:        delta,
			BalanceAfter:    s.AvailableStock(now),
			ReferenceNumber: in.ReferenceNumber,
			CreatedBy:       in.UserID,
			CreatedAt:       now,
		})
	})
}

// MoveBatchConditionInput entrada para el cambio de condición de un lote.
type MoveBatchConditionInput struct {
	OrganizationID  string
	UserID          string
	StockID         string
	BatchID         string
	NewCondition    string
	ReferenceNumber string
}

// MoveBatchToCondition cambia la condición del lote (p. ej. NEW → DAMAGED) y
// emite el movimiento CONDITION_CHANGE con cantidad 0: así el stock dañado
// sale del disponible sin descartar historia.
func (c *Coordinator) MoveBatchToCondition(ctx context.Context, in MoveBatchConditionInput) error {
	if in.OrganizationID == "" || in.StockID == "" || in.BatchID == "" {
		return fmt.Errorf("%w: organización, stock y lote son obligatorios", domain.ErrInvalidInput)
	}
	return c.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movementRepo repository.MovementRepository,
		_ repository.SellableUnitRepository,
	) error {
		s, err := c.lockStock(stockRepo, in.OrganizationID, in.StockID)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		batch, err := s.MoveBatchToCondition(in.BatchID, in.NewCondition, now)
		if err != nil {
			return err
		}
		if err := stockRepo.Update(s); err != nil {
			return err
		}
		return movementRepo.Create(&entity.Movement{
			ID:              uuid.New().String(),
			OrganizationID:  s.OrganizationID,
			SellableUnitID:  s.SellableUnitID,
			LocationID:      s.LocationID,
			StockID:         s.ID,
			BatchNumber:     batch.BatchNumber,
			Type:            entity.MovementTypeCONDITIONCHANGE,
			Quantity:        0,
			BalanceAfter:    s.AvailableStock(now),
			ReferenceNumber: in.ReferenceNumber,
			CreatedBy:       in.UserID,
			CreatedAt:       now,
		})
	})
}

// RecordStocktake registra la fecha del conteo físico sobre el agregado.
// No emite movimiento: no cambia ninguna cantidad.
func (c *Coordinator) RecordStocktake(ctx context.Context, organizationID, stockID string) error {
	if organizationID == "" || stockID == "" {
		return fmt.Errorf("%w: organización y stock son obligatorios", domain.ErrInvalidInput)
	}
	return c.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		_ repository.MovementRepository,
		_ repository.SellableUnitRepository,
	) error {
		s, err := c.lockStock(stockRepo, organizationID, stockID)
		if err != nil {
			return err
		}
		s.RecordStocktake(c.clock.Now())
		return stockRepo.Update(s)
	})
}

// GetStockSnapshot devuelve los totales derivados del agregado. Lectura pura:
// dos llamadas sin mutación intermedia devuelven exactamente lo mismo.
func (c *Coordinator) GetStockSnapshot(ctx context.Context, organizationID, stockID string) (*dto.StockSnapshotResponse, error) {
	s, err := c.stockRepo.GetByID(stockID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	now := c.clock.Now()
	return snapshotOf(s, now), nil
}

// ListMovements lista el libro de movimientos de una unidad vendible con
// filtros opcionales (rango de fechas, tipo, referencia) y paginación.
func (c *Coordinator) ListMovements(ctx context.Context, organizationID, sellableUnitID string, filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	if filter.Type != "" && !entity.IsValidMovementType(filter.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, filter.Type)
	}
	list, err := c.movementRepo.ListBySellableUnit(organizationID, sellableUnitID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:              m.ID,
			SellableUnitID:  m.SellableUnitID,
			LocationID:      m.LocationID,
			StockID:         m.StockID,
			BatchNumber:     m.BatchNumber,
			Type:            m.Type,
			Quantity:        m.Quantity,
			BalanceAfter:    m.BalanceAfter,
			ReferenceNumber: m.ReferenceNumber,
			CreatedBy:       m.CreatedBy,
			CreatedAt:       m.CreatedAt,
		})
	}
	return out, nil
}

// ListLowStock devuelve los stocks de una ubicación cuyo disponible está en o
// por debajo del nivel de reorden de su unidad (sin llegar a cero).
func (c *Coordinator) ListLowStock(ctx context.Context, organizationID, locationID string, limit, offset int) ([]dto.LowStockItemResponse, error) {
	stocks, err := c.stockRepo.ListByLocation(organizationID, locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	now := c.clock.Now()
	var out []dto.LowStockItemResponse
	for _, s := range stocks {
		unit, err := c.unitRepo.GetByID(s.SellableUnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil || !s.IsLowStock(unit.ReorderLevel, now) {
			continue
		}
		out = append(out, dto.LowStockItemResponse{
			StockID:        s.ID,
			SellableUnitID: unit.ID,
			SKU:            unit.SKU,
			Name:           unit.Name,
			Available:      s.AvailableStock(now),
			ReorderLevel:   unit.ReorderLevel,
		})
	}
	return out, nil
}

// ListExpiringBatches lotes del stock que vencen dentro del umbral de días.
func (c *Coordinator) ListExpiringBatches(ctx context.Context, organizationID, stockID string, daysThreshold int) ([]dto.BatchResponse, error) {
	s, err := c.stockRepo.GetByID(stockID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	now := c.clock.Now()
	batches := s.ExpiringSoonBatches(now, daysThreshold)
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return out, nil
}

// lockStock carga el agregado con bloqueo de fila y verifica tenencia.
func (c *Coordinator) lockStock(stockRepo repository.StockRepository, organizationID, stockID string) (*entity.Stock, error) {
	s, err := stockRepo.GetForUpdate(stockID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: stock %s", domain.ErrNotFound, stockID)
	}
	if s.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// resolveStock localiza el stock de la recepción; lo crea si es la primera
// recepción de la unidad en esa ubicación.
func (c *Coordinator) resolveStock(stockRepo repository.StockRepository, in AddBatchInput, now time.Time) (s *entity.Stock, created bool, err error) {
	if in.StockID != "" {
		s, err = c.lockStock(stockRepo, in.OrganizationID, in.StockID)
		return s, false, err
	}
	s, err = stockRepo.FindByUnitAndLocation(in.OrganizationID, in.SellableUnitID, in.LocationID)
	if err != nil {
		return nil, false, err
	}
	if s != nil {
		s, err = c.lockStock(stockRepo, in.OrganizationID, s.ID)
		return s, false, err
	}
	s, err = entity.NewStock(in.OrganizationID, in.SellableUnitID, in.LocationID, now)
	return s, true, err
}

// emitAllocations crea un Movement por cada lote tocado en el recorrido.
// sign aplica el signo del delta: -1 reserva/consume, +1 libera.
func (c *Coordinator) emitAllocations(
	movementRepo repository.MovementRepository,
	s *entity.Stock,
	allocations []stock.Allocation,
	movementType string,
	sign int64,
	in QuantityInput,
	now time.Time,
) error {
	for _, a := range allocations {
		if err := movementRepo.Create(&entity.Movement{
			ID:              uuid.New().String(),
			OrganizationID:  s.OrganizationID,
			SellableUnitID:  s.SellableUnitID,
			LocationID:      s.LocationID,
			StockID:         s.ID,
			BatchNumber:     a.Batch.BatchNumber,
			Type:            movementType,
			Quantity:        sign * a.Quantity,
			BalanceAfter:    a.BalanceAfter,
			ReferenceNumber: in.ReferenceNumber,
			CreatedBy:       in.UserID,
			CreatedAt:       now,
		}); err != nil {
			return err
		}
	}
	return nil
}

// reportIfInvariant registra en severidad error las fallas de invariante: el
// pre-chequeo pasó y el recorrido no cubrió la cantidad, señal de que la
// serialización por agregado está rota.
func (c *Coordinator) reportIfInvariant(err error, stockID string, qty int64) {
	if errors.Is(err, domain.ErrInvariantViolation) {
		c.log.Error().
			Err(err).
			Str("stock_id", stockID).
			Int64("quantity", qty).
			Msg("invariante de stock violado: recorrido de lotes insatisfecho tras pre-chequeo")
	}
}

func snapshotOf(s *entity.Stock, now time.Time) *dto.StockSnapshotResponse {
	resp := &dto.StockSnapshotResponse{
		StockID:        s.ID,
		SellableUnitID: s.SellableUnitID,
		LocationID:     s.LocationID,
		GoodStock:      s.GoodStock(now),
		DamagedStock:   s.DamagedStock(),
		ExpiredStock:   s.ExpiredStock(now),
		ReservedStock:  s.ReservedStock(),
		AvailableStock: s.AvailableStock(now),
		TotalStock:     s.TotalStock(now),
	}
	if s.LastStocktakeAt != nil {
		t := *s.LastStocktakeAt
		resp.LastStocktakeAt = &t
	}
	return resp
}

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID,
		BatchNumber:       b.BatchNumber,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		ReservedQuantity:  b.ReservedQuantity,
		AvailableQuantity: b.AvailableQuantity(),
		Condition:         b.Condition,
		ExpiryDate:        b.ExpiryDate,
		UnitCost:          b.UnitCost.Amount,
		Currency:          b.UnitCost.Currency,
		InsertDate:        b.InsertDate,
	}
}
