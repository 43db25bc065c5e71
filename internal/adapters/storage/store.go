// Package storage define lo que la app espera de cualquier datastore.
package storage

import (
	"context"

	"pet-weight-tracker/internal/domain/pets"
	"pet-weight-tracker/internal/domain/users"
	"pet-weight-tracker/internal/domain/weights"
)

// Store lo implementan memory.Store, postgres.Store y sqlite.Store.
type Store interface {
	Users() users.Repository
	Pets() pets.Repository
	Weights() weights.Repository

	Ping(ctx context.Context) error
	Close() error
}
