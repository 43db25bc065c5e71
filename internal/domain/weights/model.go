package weights

import "time"

// WeightLog es una medición de peso de una mascota.
// PetID no cambia después de creado.
type WeightLog struct {
	ID         int64
	PetID      int64
	WeightKg   float64
	MeasuredAt time.Time
}
