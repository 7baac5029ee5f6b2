package stock

import "github.com/shopspring/decimal"

// AverageCost implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantRecibida * CostoRecepción)) / (StockActual + CantRecibida)
func AverageCost(currentQty int64, currentCost decimal.Decimal, receivedQty int64, receivedCost decimal.Decimal) decimal.Decimal {
	current := decimal.NewFromInt(currentQty)
	received := decimal.NewFromInt(receivedQty)
	sum := current.Add(received)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := current.Mul(currentCost).Add(received.Mul(receivedCost))
	return num.Div(sum)
}
