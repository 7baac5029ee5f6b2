package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
	"github.com/jhoicas/retail-backoffice/internal/domain/stock"
)

func TestParseOrderingPolicy(t *testing.T) {
	p, err := stock.ParseOrderingPolicy("FIFO")
	require.NoError(t, err)
	assert.Equal(t, stock.PolicyFIFO, p)

	p, err = stock.ParseOrderingPolicy("FEFO")
	require.NoError(t, err)
	assert.Equal(t, stock.PolicyFEFO, p)

	for _, bad := range []string{"", "fifo", "LIFO"} {
		_, err := stock.ParseOrderingPolicy(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "valor %q debe rechazarse", bad)
	}
}

func TestReservable(t *testing.T) {
	s := newStock(t)
	ok := receive(t, s, "L-OK", 5, 0, nil)
	expSoon := receive(t, s, "L-EXP", 5, 1, expiryAt(1))
	dmg := receive(t, s, "L-DMG", 5, 2, nil)
	require.NoError(t, dmg.ChangeCondition(entity.ConditionDamaged))
	used := receive(t, s, "L-USED", 5, 3, nil)
	require.NoError(t, used.ChangeCondition(entity.ConditionUsed))

	assert.True(t, stock.Reservable(ok, now))
	assert.True(t, stock.Reservable(used, now), "USED es condición vendible")
	assert.True(t, stock.Reservable(expSoon, now), "aún no vencido")
	assert.False(t, stock.Reservable(expSoon, now.AddDate(0, 0, 2)), "ya vencido")
	assert.False(t, stock.Reservable(dmg, now))
}

func TestAverageCost_PromedioPonderado(t *testing.T) {
	// 10 uds a 100 + 10 uds a 200 = promedio 150
	got := stock.AverageCost(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "got %s", got)

	// 30 a 10 + 10 a 30 = (300+300)/40 = 15
	got = stock.AverageCost(30, decimal.NewFromInt(10), 10, decimal.NewFromInt(30))
	assert.True(t, got.Equal(decimal.NewFromInt(15)), "got %s", got)
}

func TestAverageCost_PrimeraRecepcionTomaElCostoRecibido(t *testing.T) {
	got := stock.AverageCost(0, decimal.Zero, 5, decimal.NewFromInt(120))
	assert.True(t, got.Equal(decimal.NewFromInt(120)), "got %s", got)
}

func TestAverageCost_SinCantidades_DevuelveCero(t *testing.T) {
	got := stock.AverageCost(0, decimal.NewFromInt(100), 0, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.Zero))
}
