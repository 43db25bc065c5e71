package memory

import (
	"context"
	"sort"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/weights"
)

type weightsRepo struct {
	s *Store
}

func (r *weightsRepo) Create(_ context.Context, w weights.WeightLog) (weights.WeightLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[w.PetID]; !ok {
		return weights.WeightLog{}, ErrUnknownPet
	}

	r.s.weightSeq++
	w.ID = r.s.weightSeq
	r.s.weights[w.ID] = w
	return w, nil
}

func (r *weightsRepo) ListByPet(_ context.Context, petID int64) ([]weights.WeightLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]weights.WeightLog, 0)
	for _, w := range r.s.weights {
		if w.PetID == petID {
			out = append(out, w)
		}
	}
	sortChronological(out)
	return out, nil
}

func (r *weightsRepo) ListByPets(_ context.Context, petIDs []int64) (map[int64][]weights.WeightLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(petIDs))
	for _, id := range petIDs {
		wanted[id] = struct{}{}
	}

	out := make(map[int64][]weights.WeightLog, len(petIDs))
	for _, w := range r.s.weights {
		if _, ok := wanted[w.PetID]; ok {
			out[w.PetID] = append(out[w.PetID], w)
		}
	}
	for id := range out {
		sortChronological(out[id])
	}
	return out, nil
}

func (r *weightsRepo) Update(_ context.Context, id, petID int64, in weights.UpdateInput) (weights.WeightLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.weights[id]
	if !ok || w.PetID != petID {
		return weights.WeightLog{}, apperr.ErrNotFound
	}

	w.WeightKg = in.WeightKg
	if in.MeasuredAt != nil {
		w.MeasuredAt = *in.MeasuredAt
	}
	r.s.weights[id] = w
	return w, nil
}

func (r *weightsRepo) Delete(_ context.Context, id, petID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.weights[id]
	if !ok || w.PetID != petID {
		return apperr.ErrNotFound
	}
	delete(r.s.weights, id)
	return nil
}

// sortChronological ordena por measuredAt ASC, desempate por id.
func sortChronological(items []weights.WeightLog) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].MeasuredAt.Equal(items[j].MeasuredAt) {
			return items[i].MeasuredAt.Before(items[j].MeasuredAt)
		}
		return items[i].ID < items[j].ID
	})
}
