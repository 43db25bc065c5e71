package memory

import (
	"context"
	"sort"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/pets"
)

type petsRepo struct {
	s *Store
}

func (r *petsRepo) Create(_ context.Context, p pets.Pet) (pets.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.UserID != nil {
		if _, ok := r.s.users[*p.UserID]; !ok {
			return pets.Pet{}, ErrUnknownUser
		}
	}

	r.s.petSeq++
	p.ID = r.s.petSeq
	r.s.pets[p.ID] = clonePet(p)
	return clonePet(p), nil
}

func (r *petsRepo) GetByID(_ context.Context, id int64) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, apperr.ErrNotFound
	}
	return clonePet(p), nil
}

func (r *petsRepo) ListByOwner(_ context.Context, userID int64) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if p.OwnedBy(userID) {
			out = append(out, clonePet(p))
		}
	}

	// Orden estable por id (= orden de creación).
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *petsRepo) Update(_ context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.pets[p.ID]
	if !ok || p.UserID == nil || !cur.OwnedBy(*p.UserID) {
		return apperr.ErrNotFound
	}

	p.CreatedAt = cur.CreatedAt
	r.s.pets[p.ID] = clonePet(p)
	return nil
}

// Delete borra la mascota y sus pesos (ON DELETE CASCADE).
func (r *petsRepo) Delete(_ context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.pets[id]
	if !ok || !cur.OwnedBy(userID) {
		return apperr.ErrNotFound
	}

	delete(r.s.pets, id)
	for wid, w := range r.s.weights {
		if w.PetID == id {
			delete(r.s.weights, wid)
		}
	}
	return nil
}

func (r *petsRepo) AssignUnowned(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return 0, ErrUnknownUser
	}

	var n int64
	for id, p := range r.s.pets {
		if p.UserID != nil {
			continue
		}
		owner := userID
		p.UserID = &owner
		r.s.pets[id] = p
		n++
	}
	return n, nil
}

// clonePet copia los punteros para que el llamador no comparta memoria con el store.
func clonePet(p pets.Pet) pets.Pet {
	p.UserID = clonePtr(p.UserID)
	p.Breed = clonePtr(p.Breed)
	p.Age = clonePtr(p.Age)
	p.BirthDate = clonePtr(p.BirthDate)
	p.DeathDate = clonePtr(p.DeathDate)
	p.Description = clonePtr(p.Description)
	return p
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
