package weights

import (
	"context"
	"time"
)

// Todas las lecturas devuelven measured_at ASC (desempate por id).
type Repository interface {
	Create(ctx context.Context, w WeightLog) (WeightLog, error)
	ListByPet(ctx context.Context, petID int64) ([]WeightLog, error)
	ListByPets(ctx context.Context, petIDs []int64) (map[int64][]WeightLog, error)

	// Update y Delete matchean por (id, petID); si no hay fila => apperr.ErrNotFound.
	Update(ctx context.Context, id, petID int64, in UpdateInput) (WeightLog, error)
	Delete(ctx context.Context, id, petID int64) error
}

// UpdateInput: MeasuredAt nil = no tocar.
type UpdateInput struct {
	WeightKg   float64
	MeasuredAt *time.Time
}
