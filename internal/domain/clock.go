package domain

import "time"

// Clock abstrae "ahora" para que la lógica de vencimientos sea testeable.
type Clock interface {
	Now() time.Time
}

// SystemClock implementación de producción sobre time.Now.
type SystemClock struct{}

// Now devuelve la hora del sistema.
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapta una función a Clock (útil en tests con hora fija).
type ClockFunc func() time.Time

// Now invoca la función.
func (f ClockFunc) Now() time.Time { return f() }
