// Package memory guarda users, pets y weights en memoria.
// Es el store por defecto para dev y tests; no persiste entre reinicios.
package memory

import (
	"context"
	"errors"
	"sync"

	"pet-weight-tracker/internal/domain/pets"
	"pet-weight-tracker/internal/domain/users"
	"pet-weight-tracker/internal/domain/weights"
)

// Errores de integridad equivalentes a las FKs del esquema SQL.
var (
	ErrUnknownUser = errors.New("user does not exist")
	ErrUnknownPet  = errors.New("pet does not exist")
)

// Store comparte un solo lock entre los tres repos para que las
// validaciones de FK y el borrado en cascada sean atómicos.
type Store struct {
	mu sync.RWMutex

	users   map[int64]users.User
	pets    map[int64]pets.Pet
	weights map[int64]weights.WeightLog

	userSeq   int64
	petSeq    int64
	weightSeq int64
}

func New() *Store {
	return &Store{
		users:   make(map[int64]users.User),
		pets:    make(map[int64]pets.Pet),
		weights: make(map[int64]weights.WeightLog),
	}
}

func (s *Store) Users() users.Repository     { return &usersRepo{s: s} }
func (s *Store) Pets() pets.Repository       { return &petsRepo{s: s} }
func (s *Store) Weights() weights.Repository { return &weightsRepo{s: s} }

// Ping siempre está sano.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
