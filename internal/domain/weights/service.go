package weights

import (
	"context"
	"errors"
	"time"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/validation"
)

// PetOwnership resuelve el owner de una mascota.
// Lo implementa pets.Service; acá se declara para evitar el ciclo de imports.
type PetOwnership interface {
	OwnerOf(ctx context.Context, petID int64) (int64, error)
}

type Service struct {
	repo Repository
	pets PetOwnership
	now  func() time.Time
}

func NewService(repo Repository, pets PetOwnership) *Service {
	return &Service{
		repo: repo,
		pets: pets,
		now:  time.Now,
	}
}

// authorize: la mascota debe existir y pertenecer a ownerID.
// Una mascota ajena se reporta igual que una inexistente.
func (s *Service) authorize(ctx context.Context, ownerID, petID int64) error {
	if ownerID <= 0 {
		return apperr.Unauthenticated("missing owner")
	}
	owner, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return err
	}
	if owner != ownerID {
		return apperr.NotFound("Pet")
	}
	return nil
}

// Create registra un peso. measuredAt ausente => ahora.
func (s *Service) Create(ctx context.Context, ownerID, petID int64, in validation.WeightFields) (WeightLog, error) {
	if in.WeightKg <= 0 {
		return WeightLog{}, apperr.InvalidField("weightKg", "invalid weightKg", "Invalid weightKg")
	}
	if err := s.authorize(ctx, ownerID, petID); err != nil {
		return WeightLog{}, err
	}

	measured := s.now().UTC()
	if in.MeasuredAt != nil {
		measured = in.MeasuredAt.UTC()
	}

	w, err := s.repo.Create(ctx, WeightLog{
		PetID:      petID,
		WeightKg:   in.WeightKg,
		MeasuredAt: measured,
	})
	if err != nil {
		return WeightLog{}, apperr.Persistence("Create weight", err)
	}
	return w, nil
}

func (s *Service) List(ctx context.Context, ownerID, petID int64) ([]WeightLog, error) {
	if err := s.authorize(ctx, ownerID, petID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return nil, apperr.Persistence("List weights", err)
	}
	return items, nil
}

// Update exige que weightID pertenezca a petID.
func (s *Service) Update(ctx context.Context, ownerID, petID, weightID int64, in validation.WeightFields) (WeightLog, error) {
	if in.WeightKg <= 0 {
		return WeightLog{}, apperr.InvalidField("weightKg", "invalid weightKg", "Invalid weightKg")
	}
	if err := s.authorize(ctx, ownerID, petID); err != nil {
		return WeightLog{}, err
	}

	var measured *time.Time
	if in.MeasuredAt != nil {
		t := in.MeasuredAt.UTC()
		measured = &t
	}

	w, err := s.repo.Update(ctx, weightID, petID, UpdateInput{
		WeightKg:   in.WeightKg,
		MeasuredAt: measured,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return WeightLog{}, apperr.NotFound("Weight")
		}
		return WeightLog{}, apperr.Persistence("Update weight", err)
	}
	return w, nil
}

// Delete no es idempotente: un segundo delete del mismo id da NotFound.
func (s *Service) Delete(ctx context.Context, ownerID, petID, weightID int64) error {
	if err := s.authorize(ctx, ownerID, petID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, weightID, petID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("Weight")
		}
		return apperr.Persistence("Delete weight", err)
	}
	return nil
}
