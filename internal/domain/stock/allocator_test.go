package stock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/money"
	"github.com/jhoicas/retail-backoffice/internal/domain/stock"
)

var (
	t0  = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now = t0.Add(72 * time.Hour)
)

func cost() money.Money {
	return money.MustNew(decimal.NewFromInt(1000), "COP")
}

func newStock(t *testing.T) *entity.Stock {
	t.Helper()
	s, err := entity.NewStock("org-1", "unit-1", "loc-1", t0)
	require.NoError(t, err)
	return s
}

// receive agrega un lote con insertDate = t0 + offset horas.
func receive(t *testing.T, s *entity.Stock, number string, qty int64, offsetHours int, expiry *time.Time) *entity.Batch {
	t.Helper()
	b, err := s.AddBatch(number, qty, cost(), expiry, "", t0.Add(time.Duration(offsetHours)*time.Hour))
	require.NoError(t, err)
	return b
}

func expiryAt(days int) *time.Time {
	e := now.AddDate(0, 0, days)
	return &e
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve — orden FIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_FIFO_RecorreDelMasViejoAlMasNuevo(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-B", 10, 10, nil) // segundo
	receive(t, s, "L-A", 10, 0, nil)  // más viejo
	receive(t, s, "L-C", 10, 20, nil) // más nuevo

	allocations, err := stock.Reserve(s, 15, stock.PolicyFIFO, now)
	require.NoError(t, err)

	require.Len(t, allocations, 2)
	assert.Equal(t, "L-A", allocations[0].Batch.BatchNumber, "primero el lote más viejo")
	assert.Equal(t, int64(10), allocations[0].Quantity)
	assert.Equal(t, "L-B", allocations[1].Batch.BatchNumber)
	assert.Equal(t, int64(5), allocations[1].Quantity)
	assert.Equal(t, int64(15), s.ReservedStock())
}

func TestReserve_BalanceAfterEsElDisponibleTrasCadaPaso(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-A", 10, 0, nil)
	receive(t, s, "L-B", 10, 10, nil)

	allocations, err := stock.Reserve(s, 15, stock.PolicyFIFO, now)
	require.NoError(t, err)

	require.Len(t, allocations, 2)
	assert.Equal(t, int64(10), allocations[0].BalanceAfter, "20 - 10 reservadas")
	assert.Equal(t, int64(5), allocations[1].BalanceAfter, "20 - 15 reservadas")
}

func TestReserve_SumaDeAsignacionesIgualALoPedido(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-A", 3, 0, nil)
	receive(t, s, "L-B", 4, 1, nil)
	receive(t, s, "L-C", 5, 2, nil)

	allocations, err := stock.Reserve(s, 9, stock.PolicyFIFO, now)
	require.NoError(t, err)

	var total int64
	for _, a := range allocations {
		total += a.Quantity
	}
	assert.Equal(t, int64(9), total, "conservación: nada se pierde ni se duplica en el recorrido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve — orden FEFO
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_FEFO_VenceMasProntoPrimero(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-LEJANO", 10, 0, expiryAt(90)) // insertado primero pero vence después
	receive(t, s, "L-CERCANO", 10, 10, expiryAt(5))

	allocations, err := stock.Reserve(s, 12, stock.PolicyFEFO, now)
	require.NoError(t, err)

	require.Len(t, allocations, 2)
	assert.Equal(t, "L-CERCANO", allocations[0].Batch.BatchNumber,
		"FEFO ignora el orden de inserción: manda el vencimiento")
	assert.Equal(t, "L-LEJANO", allocations[1].Batch.BatchNumber)
}

func TestReserve_FEFO_SinVencimientoVanAlFinal(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-SIN", 10, 0, nil)
	receive(t, s, "L-CON", 10, 10, expiryAt(30))

	allocations, err := stock.Reserve(s, 12, stock.PolicyFEFO, now)
	require.NoError(t, err)

	require.Len(t, allocations, 2)
	assert.Equal(t, "L-CON", allocations[0].Batch.BatchNumber)
	assert.Equal(t, "L-SIN", allocations[1].Batch.BatchNumber)
}

func TestReserve_FEFO_EmpateDeVencimientoDesempataPorInsercion(t *testing.T) {
	s := newStock(t)
	sameExpiry := expiryAt(30)
	receive(t, s, "L-NUEVO", 10, 10, sameExpiry)
	receive(t, s, "L-VIEJO", 10, 0, sameExpiry)

	allocations, err := stock.Reserve(s, 5, stock.PolicyFEFO, now)
	require.NoError(t, err)

	require.Len(t, allocations, 1)
	assert.Equal(t, "L-VIEJO", allocations[0].Batch.BatchNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve — elegibilidad y límites
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_SaltaLotesVencidosYNoVendibles(t *testing.T) {
	s := newStock(t)
	expired := receive(t, s, "L-VENC", 10, 0, expiryAt(1))
	damaged := receive(t, s, "L-DMG", 10, 1, nil)
	require.NoError(t, damaged.ChangeCondition(entity.ConditionDamaged))
	receive(t, s, "L-OK", 10, 2, nil)

	afterExpiry := now.AddDate(0, 0, 2) // L-VENC ya venció

	allocations, err := stock.Reserve(s, 10, stock.PolicyFIFO, afterExpiry)
	require.NoError(t, err)

	require.Len(t, allocations, 1)
	assert.Equal(t, "L-OK", allocations[0].Batch.BatchNumber)
	assert.Equal(t, int64(0), expired.ReservedQuantity, "el lote vencido no participa")
	assert.Equal(t, int64(0), damaged.ReservedQuantity)
}

func TestReserve_ExactamenteElDisponible_Pasa(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-A", 7, 0, nil)

	_, err := stock.Reserve(s, 7, stock.PolicyFIFO, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.AvailableStock(now))
}

func TestReserve_DisponibleMasUno_FallaSinMutar(t *testing.T) {
	s := newStock(t)
	a := receive(t, s, "L-A", 4, 0, nil)
	b := receive(t, s, "L-B", 3, 1, nil)

	_, err := stock.Reserve(s, 8, stock.PolicyFIFO, now)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), a.ReservedQuantity, "el rechazo es previo al recorrido: ningún lote queda tocado")
	assert.Equal(t, int64(0), b.ReservedQuantity)
}

func TestReserve_CantidadInvalida(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-A", 5, 0, nil)

	for _, qty := range []int64{0, -1} {
		_, err := stock.Reserve(s, qty, stock.PolicyFIFO, now)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Release
// ──────────────────────────────────────────────────────────────────────────────

func TestRelease_SueltaLaReservaMasViejaPrimero(t *testing.T) {
	s := newStock(t)
	a := receive(t, s, "L-A", 10, 0, nil)
	b := receive(t, s, "L-B", 10, 10, nil)
	_, err := stock.Reserve(s, 15, stock.PolicyFIFO, now)
	require.NoError(t, err)
	require.Equal(t, int64(10), a.ReservedQuantity)
	require.Equal(t, int64(5), b.ReservedQuantity)

	allocations, err := stock.Release(s, 12, now)
	require.NoError(t, err)

	require.Len(t, allocations, 2)
	assert.Equal(t, "L-A", allocations[0].Batch.BatchNumber)
	assert.Equal(t, int64(10), allocations[0].Quantity)
	assert.Equal(t, int64(2), allocations[1].Quantity)
	assert.Equal(t, int64(3), s.ReservedStock())
}

func TestRelease_MasQueLoReservado_FallaSinMutar(t *testing.T) {
	s := newStock(t)
	a := receive(t, s, "L-A", 10, 0, nil)
	_, err := stock.Reserve(s, 4, stock.PolicyFIFO, now)
	require.NoError(t, err)

	_, err = stock.Release(s, 5, now)

	assert.ErrorIs(t, err, domain.ErrOverRelease)
	assert.Equal(t, int64(4), a.ReservedQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consume
// ──────────────────────────────────────────────────────────────────────────────

func TestConsume_DescuentaReservadoYRestante(t *testing.T) {
	s := newStock(t)
	a := receive(t, s, "L-A", 10, 0, nil)
	b := receive(t, s, "L-B", 10, 10, nil)
	_, err := stock.Reserve(s, 13, stock.PolicyFIFO, now)
	require.NoError(t, err)

	allocations, err := stock.Consume(s, 13, now)
	require.NoError(t, err)

	require.Len(t, allocations, 2)
	assert.Equal(t, int64(0), a.RemainingQuantity, "el lote más viejo se consumió completo")
	assert.Equal(t, int64(0), a.ReservedQuantity)
	assert.Equal(t, int64(7), b.RemainingQuantity)
	assert.Equal(t, int64(0), b.ReservedQuantity)
	assert.Equal(t, int64(7), s.TotalStock(now), "solo queda lo no consumido")
}

func TestConsume_SinReservaSuficiente_Falla(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-A", 10, 0, nil)
	_, err := stock.Reserve(s, 3, stock.PolicyFIFO, now)
	require.NoError(t, err)

	_, err = stock.Consume(s, 5, now)
	assert.ErrorIs(t, err, domain.ErrOverRelease,
		"consumir más que lo reservado falla aunque haya físico de sobra")
}

func TestConsume_ParcialDejaElRestoReservado(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-A", 10, 0, nil)
	_, err := stock.Reserve(s, 6, stock.PolicyFIFO, now)
	require.NoError(t, err)

	_, err = stock.Consume(s, 4, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), s.ReservedStock())
	assert.Equal(t, int64(6), s.TotalStock(now))
	assert.Equal(t, int64(4), s.AvailableStock(now))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo completo reservar → consumir
// ──────────────────────────────────────────────────────────────────────────────

func TestCicloReservaConsumo_ConservaLasCuentas(t *testing.T) {
	s := newStock(t)
	receive(t, s, "L-A", 8, 0, nil)
	receive(t, s, "L-B", 8, 1, nil)

	_, err := stock.Reserve(s, 10, stock.PolicyFIFO, now)
	require.NoError(t, err)
	_, err = stock.Release(s, 3, now)
	require.NoError(t, err)
	_, err = stock.Consume(s, 7, now)
	require.NoError(t, err)

	assert.Equal(t, int64(0), s.ReservedStock())
	assert.Equal(t, int64(9), s.TotalStock(now), "16 recibidas - 7 consumidas")
	assert.Equal(t, int64(9), s.AvailableStock(now))
}
