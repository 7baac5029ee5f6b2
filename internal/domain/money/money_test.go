package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-backoffice/internal/domain/money"
)

func TestNew_ValidaMoneda(t *testing.T) {
	m, err := money.New(decimal.NewFromInt(100), "COP")
	require.NoError(t, err)
	assert.Equal(t, "COP", m.Currency)

	for _, bad := range []string{"", "CO", "PESOS"} {
		_, err := money.New(decimal.NewFromInt(100), bad)
		assert.Error(t, err, "moneda %q debe rechazarse", bad)
	}
}

func TestMulInt(t *testing.T) {
	m := money.MustNew(decimal.RequireFromString("12.50"), "COP")
	got := m.MulInt(4)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("50")), "got %s", got.Amount)
	assert.Equal(t, "COP", got.Currency)
}

func TestAdd_MonedasDistintas_Falla(t *testing.T) {
	cop := money.MustNew(decimal.NewFromInt(100), "COP")
	usd := money.MustNew(decimal.NewFromInt(100), "USD")

	_, err := cop.Add(usd)
	assert.Error(t, err, "sumar monedas distintas es un error, nunca una conversión implícita")

	sum, err := cop.Add(money.MustNew(decimal.NewFromInt(50), "COP"))
	require.NoError(t, err)
	assert.True(t, sum.Amount.Equal(decimal.NewFromInt(150)))
}
