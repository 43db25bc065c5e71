package pets

import "context"

type Repository interface {
	// Create inserta y devuelve la fila con ID y CreatedAt asignados.
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	ListByOwner(ctx context.Context, userID int64) ([]Pet, error)

	// Update y Delete matchean por (id, owner); sin fila => apperr.ErrNotFound.
	// Update nunca toca CreatedAt.
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id, userID int64) error

	// AssignUnowned asigna userID a todas las mascotas sin dueño.
	AssignUnowned(ctx context.Context, userID int64) (int64, error)
}
