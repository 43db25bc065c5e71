package users

import (
	"context"
	"errors"
)

// ErrEmailTaken lo devuelven los repos ante un email duplicado.
var ErrEmailTaken = errors.New("email already registered")

type Repository interface {
	// Create inserta y devuelve el usuario con el ID asignado por el store.
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
