package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstock "github.com/jhoicas/retail-backoffice/internal/application/stock"
	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/money"
	"github.com/jhoicas/retail-backoffice/internal/domain/repository"
	"github.com/jhoicas/retail-backoffice/internal/domain/stock"
	"github.com/jhoicas/retail-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/retail-backoffice/pkg/logger"
)

const (
	testOrgID  = "00000000-0000-0000-0000-00000000000a"
	testUserID = "00000000-0000-0000-0000-00000000000b"
	testUnitID = "00000000-0000-0000-0000-00000000000c"
	testLocID  = "00000000-0000-0000-0000-00000000000d"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fixture arma un coordinador sobre el store en memoria con reloj fijo.
type fixture struct {
	store       *memory.Store
	coordinator *appstock.Coordinator
}

func newFixture(t *testing.T, policy stock.OrderingPolicy) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedUnit(&entity.SellableUnit{
		ID:             testUnitID,
		OrganizationID: testOrgID,
		SKU:            "SKU-001",
		Name:           "Café 500g",
		Cost:           decimal.Zero,
		Currency:       "COP",
		ReorderLevel:   5,
	})
	coordinator := appstock.NewCoordinator(
		memory.NewTxRunner(store),
		memory.NewStockRepository(store),
		memory.NewMovementRepository(store),
		memory.NewSellableUnitRepository(store),
		policy,
		domain.ClockFunc(func() time.Time { return fixedNow }),
		logger.Nop(),
	)
	return &fixture{store: store, coordinator: coordinator}
}

// addBatch recibe un lote por el camino real (find-or-create del stock) y
// devuelve el ID del stock materializado.
func (f *fixture) addBatch(t *testing.T, number string, qty int64, unitCost int64) string {
	t.Helper()
	_, err := f.coordinator.AddBatch(context.Background(), appstock.AddBatchInput{
		OrganizationID:  testOrgID,
		UserID:          testUserID,
		SellableUnitID:  testUnitID,
		LocationID:      testLocID,
		BatchNumber:     number,
		Quantity:        qty,
		UnitCost:        money.MustNew(decimal.NewFromInt(unitCost), "COP"),
		ReferenceNumber: "OC-" + number,
	})
	require.NoError(t, err)

	s, err := memory.NewStockRepository(f.store).FindByUnitAndLocation(testOrgID, testUnitID, testLocID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.ID
}

func quantityInput(stockID string, qty int64, ref string) appstock.QuantityInput {
	return appstock.QuantityInput{
		OrganizationID:  testOrgID,
		UserID:          testUserID,
		StockID:         stockID,
		Quantity:        qty,
		ReferenceNumber: ref,
	}
}

// movementsOfType filtra el libro completo del store por tipo.
func (f *fixture) movementsOfType(movementType string) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range f.store.Movements() {
		if m.Type == movementType {
			out = append(out, m)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestAddBatch_MaterializaElStockYEmiteRECEIPT(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)

	stockID := f.addBatch(t, "L-001", 10, 100)

	snap, err := f.coordinator.GetStockSnapshot(context.Background(), testOrgID, stockID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), snap.GoodStock)
	assert.Equal(t, int64(10), snap.AvailableStock)

	receipts := f.movementsOfType(entity.MovementTypeRECEIPT)
	require.Len(t, receipts, 1)
	assert.Equal(t, "L-001", receipts[0].BatchNumber)
	assert.Equal(t, int64(10), receipts[0].Quantity)
	assert.Equal(t, int64(10), receipts[0].BalanceAfter)
	assert.Equal(t, "OC-L-001", receipts[0].ReferenceNumber)
	assert.NotEmpty(t, receipts[0].ID)
}

func TestAddBatch_SegundaRecepcionReusaElStock(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)

	first := f.addBatch(t, "L-001", 10, 100)
	second := f.addBatch(t, "L-002", 5, 100)

	assert.Equal(t, first, second, "misma unidad y ubicación => mismo agregado")
	snap, err := f.coordinator.GetStockSnapshot(context.Background(), testOrgID, first)
	require.NoError(t, err)
	assert.Equal(t, int64(15), snap.TotalStock)
}

func TestAddBatch_RecalculaCostoPromedioPonderado(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)

	f.addBatch(t, "L-001", 10, 100)
	f.addBatch(t, "L-002", 10, 200)

	unit, err := memory.NewSellableUnitRepository(f.store).GetByID(testUnitID)
	require.NoError(t, err)
	assert.True(t, unit.Cost.Equal(decimal.NewFromInt(150)),
		"10 a 100 + 10 a 200 => promedio 150, got %s", unit.Cost)
}

func TestAddBatch_NumeroDeLoteDuplicado_RechazadoSinMovimiento(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	f.addBatch(t, "L-001", 10, 100)

	_, err := f.coordinator.AddBatch(context.Background(), appstock.AddBatchInput{
		OrganizationID:  testOrgID,
		UserID:          testUserID,
		SellableUnitID:  testUnitID,
		LocationID:      testLocID,
		BatchNumber:     "L-001",
		Quantity:        5,
		UnitCost:        money.MustNew(decimal.NewFromInt(100), "COP"),
		ReferenceNumber: "OC-DUP",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, f.movementsOfType(entity.MovementTypeRECEIPT), 1,
		"la recepción rechazada no deja movimiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserva / liberación / consumo
// ──────────────────────────────────────────────────────────────────────────────

func TestReserveStock_EmiteUnMovimientoPorLoteTocado(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)
	f.addBatch(t, "L-002", 10, 100)

	err := f.coordinator.ReserveStock(context.Background(), quantityInput(stockID, 15, "VENTA-1"))
	require.NoError(t, err)

	reservations := f.movementsOfType(entity.MovementTypeRESERVATION)
	require.Len(t, reservations, 2, "la reserva cruzó dos lotes")
	assert.Equal(t, int64(-10), reservations[0].Quantity, "delta firmado negativo")
	assert.Equal(t, int64(10), reservations[0].BalanceAfter)
	assert.Equal(t, int64(-5), reservations[1].Quantity)
	assert.Equal(t, int64(5), reservations[1].BalanceAfter)
	for _, m := range reservations {
		assert.Equal(t, "VENTA-1", m.ReferenceNumber)
		assert.Equal(t, testUserID, m.CreatedBy)
	}
}

func TestReserveStock_InsuficienteNoDejaRastro(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)

	err := f.coordinator.ReserveStock(context.Background(), quantityInput(stockID, 11, "VENTA-1"))

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, f.movementsOfType(entity.MovementTypeRESERVATION))
	snap, err := f.coordinator.GetStockSnapshot(context.Background(), testOrgID, stockID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.ReservedStock, "la transacción fallida se descartó completa")
}

func TestReserveStock_SinReferencia_Rechazada(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)

	err := f.coordinator.ReserveStock(context.Background(), quantityInput(stockID, 1, "  "))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReserveStock_OtraOrganizacion_Forbidden(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)

	in := quantityInput(stockID, 1, "VENTA-1")
	in.OrganizationID = "otra-org"
	err := f.coordinator.ReserveStock(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReserveStock_StockInexistente_NotFound(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)

	err := f.coordinator.ReserveStock(context.Background(), quantityInput("no-existe", 1, "VENTA-1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCicloVenta_ReservaConsumoYMovimientos(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)
	ctx := context.Background()

	require.NoError(t, f.coordinator.ReserveStock(ctx, quantityInput(stockID, 6, "VENTA-9")))
	require.NoError(t, f.coordinator.ReleaseStock(ctx, quantityInput(stockID, 2, "VENTA-9")))
	require.NoError(t, f.coordinator.ConsumeStock(ctx, quantityInput(stockID, 4, "VENTA-9")))

	snap, err := f.coordinator.GetStockSnapshot(ctx, testOrgID, stockID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.ReservedStock)
	assert.Equal(t, int64(6), snap.TotalStock, "10 recibidas - 4 consumidas")
	assert.Equal(t, int64(6), snap.AvailableStock)

	releases := f.movementsOfType(entity.MovementTypeRELEASE)
	require.Len(t, releases, 1)
	assert.Equal(t, int64(2), releases[0].Quantity, "la liberación es delta positivo")

	consumptions := f.movementsOfType(entity.MovementTypeCONSUMPTION)
	require.Len(t, consumptions, 1)
	assert.Equal(t, int64(-4), consumptions[0].Quantity)
	assert.Equal(t, int64(6), consumptions[0].BalanceAfter)
}

func TestConsumeStock_MasQueLoReservado_Falla(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)
	ctx := context.Background()
	require.NoError(t, f.coordinator.ReserveStock(ctx, quantityInput(stockID, 3, "VENTA-1")))

	err := f.coordinator.ConsumeStock(ctx, quantityInput(stockID, 5, "VENTA-1"))

	assert.ErrorIs(t, err, domain.ErrOverRelease)
	assert.Empty(t, f.movementsOfType(entity.MovementTypeCONSUMPTION))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajuste, condición y conteo
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustBatchQuantity_EmiteADJUSTMENTConDelta(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)
	s := f.store.StockByID(stockID)
	batchID := s.Batches[0].ID

	err := f.coordinator.AdjustBatchQuantity(context.Background(), appstock.AdjustBatchInput{
		OrganizationID:  testOrgID,
		UserID:          testUserID,
		StockID:         stockID,
		BatchID:         batchID,
		CountedQuantity: 7,
		ReferenceNumber: "CONTEO-1",
	})
	require.NoError(t, err)

	adjustments := f.movementsOfType(entity.MovementTypeADJUSTMENT)
	require.Len(t, adjustments, 1)
	assert.Equal(t, int64(-3), adjustments[0].Quantity, "se contaron 7 donde había 10")
	assert.Equal(t, int64(7), adjustments[0].BalanceAfter)
}

func TestMoveBatchToCondition_EmiteCONDITIONCHANGEConCantidadCero(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)
	batchID := f.store.StockByID(stockID).Batches[0].ID

	err := f.coordinator.MoveBatchToCondition(context.Background(), appstock.MoveBatchConditionInput{
		OrganizationID: testOrgID,
		UserID:         testUserID,
		StockID:        stockID,
		BatchID:        batchID,
		NewCondition:   entity.ConditionDamaged,
	})
	require.NoError(t, err)

	changes := f.movementsOfType(entity.MovementTypeCONDITIONCHANGE)
	require.Len(t, changes, 1)
	assert.Equal(t, int64(0), changes[0].Quantity)
	assert.Equal(t, int64(0), changes[0].BalanceAfter, "todo el stock quedó dañado")

	snap, err := f.coordinator.GetStockSnapshot(context.Background(), testOrgID, stockID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.GoodStock)
	assert.Equal(t, int64(10), snap.DamagedStock)
}

func TestRecordStocktake_SinMovimiento(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)
	before := len(f.store.Movements())

	require.NoError(t, f.coordinator.RecordStocktake(context.Background(), testOrgID, stockID))

	assert.Len(t, f.store.Movements(), before, "el conteo no emite movimiento")
	snap, err := f.coordinator.GetStockSnapshot(context.Background(), testOrgID, stockID)
	require.NoError(t, err)
	require.NotNil(t, snap.LastStocktakeAt)
	assert.Equal(t, fixedNow, *snap.LastStocktakeAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltraPorTipo(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)
	ctx := context.Background()
	require.NoError(t, f.coordinator.ReserveStock(ctx, quantityInput(stockID, 2, "VENTA-1")))

	list, err := f.coordinator.ListMovements(ctx, testOrgID, testUnitID, repository.MovementFilter{
		Type: entity.MovementTypeRESERVATION,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.MovementTypeRESERVATION, list[0].Type)

	_, err = f.coordinator.ListMovements(ctx, testOrgID, testUnitID, repository.MovementFilter{Type: "RARO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListLowStock(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 10, 100)
	ctx := context.Background()

	// Disponible 10 > reorden 5: aún no es stock bajo.
	low, err := f.coordinator.ListLowStock(ctx, testOrgID, testLocID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, low)

	require.NoError(t, f.coordinator.ReserveStock(ctx, quantityInput(stockID, 7, "VENTA-1")))

	low, err = f.coordinator.ListLowStock(ctx, testOrgID, testLocID, 20, 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "SKU-001", low[0].SKU)
	assert.Equal(t, int64(3), low[0].Available)
	assert.Equal(t, int64(5), low[0].ReorderLevel)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: reservas en paralelo sobre el mismo agregado
// ──────────────────────────────────────────────────────────────────────────────

func TestReserveStock_ConcurrenteNoSobrevende(t *testing.T) {
	f := newFixture(t, stock.PolicyFIFO)
	stockID := f.addBatch(t, "L-001", 20, 100)
	ctx := context.Background()

	const workers = 30 // 30 intentos de 1 unidad contra 20 disponibles
	var wg sync.WaitGroup
	var mu sync.Mutex
	var okCount, insufficientCount int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := f.coordinator.ReserveStock(ctx, appstock.QuantityInput{
				OrganizationID:  testOrgID,
				UserID:          testUserID,
				StockID:         stockID,
				Quantity:        1,
				ReferenceNumber: "VENTA-CONC",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				okCount++
			case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
				insufficientCount++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, okCount, "exactamente el disponible se reservó")
	assert.Equal(t, 10, insufficientCount, "el resto rebotó limpio")

	snap, err := f.coordinator.GetStockSnapshot(ctx, testOrgID, stockID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), snap.ReservedStock)
	assert.Equal(t, int64(0), snap.AvailableStock)
	assert.Len(t, f.movementsOfType(entity.MovementTypeRESERVATION), 20,
		"un movimiento por reserva exitosa, ninguno por las fallidas")
}
