package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	// Errores del motor de reservas.
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrInsufficientAvailable = errors.New("cantidad disponible insuficiente en el lote")
	ErrOverRelease           = errors.New("liberación mayor que la cantidad reservada")

	// ErrInvariantViolation indica que el pre-chequeo a nivel de agregado pasó
	// pero el recorrido de lotes no pudo satisfacer la cantidad: la serialización
	// por agregado está rota. Nunca se reintenta en silencio; se registra en error.
	ErrInvariantViolation = errors.New("violación de invariante del stock")
)
