package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeRECEIPT         = "RECEIPT"          // recepción de lote (+)
	MovementTypeRESERVATION     = "RESERVATION"      // reserva (-)
	MovementTypeRELEASE         = "RELEASE"          // liberación de reserva (+)
	MovementTypeCONSUMPTION     = "CONSUMPTION"      // venta completada (-)
	MovementTypeADJUSTMENT      = "ADJUSTMENT"       // reconciliación de conteo (+/-)
	MovementTypeCONDITIONCHANGE = "CONDITION_CHANGE" // cambio de condición (0)
)

// IsValidMovementType valida el tipo contra la lista conocida.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeRECEIPT, MovementTypeRESERVATION, MovementTypeRELEASE,
		MovementTypeCONSUMPTION, MovementTypeADJUSTMENT, MovementTypeCONDITIONCHANGE:
		return true
	}
	return false
}

// Movement es la fila inmutable del libro de movimientos: un registro por cada
// evento que afecta cantidades, con el delta firmado y el disponible resultante.
// BalanceAfter es una foto al momento de la emisión; no es re-derivable después
// salvo reproduciendo todos los movimientos en orden. Nunca se actualiza ni borra.
type Movement struct {
	ID              string
	OrganizationID  string
	SellableUnitID  string
	LocationID      string
	StockID         string
	BatchNumber     string // lote de origen; vacío en eventos sin lote
	Type            string
	Quantity        int64 // delta firmado: + entra/libera, - reserva/consume, 0 informativo
	BalanceAfter    int64 // disponible del agregado inmediatamente después de la mutación
	ReferenceNumber string // venta/orden que originó el evento; lo aporta el caller
	CreatedBy       string // UserID actor
	CreatedAt       time.Time
}
