package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money valor monetario inmutable: monto + moneda (ISO 4217).
// El motor de stock lo usa para costos unitarios; no hay conversión entre monedas.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// New construye un Money validando la moneda (código de 3 letras).
func New(amount decimal.Decimal, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("moneda inválida: %q", currency)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// MustNew como New pero con panic; solo para constantes de test y seeds.
func MustNew(amount decimal.Decimal, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero devuelve el cero en la moneda indicada.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// MulInt multiplica el monto por una cantidad entera (valorización de lotes).
func (m Money) MulInt(qty int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(qty)), Currency: m.Currency}
}

// Add suma dos montos; error si las monedas difieren.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("monedas distintas: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// IsNegative indica si el monto es menor que cero.
func (m Money) IsNegative() bool { return m.Amount.LessThan(decimal.Zero) }

// Equal compara monto y moneda.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String formato "123.45 COP".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}
