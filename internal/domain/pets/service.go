package pets

import (
	"context"
	"errors"
	"time"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/weights"
	"pet-weight-tracker/internal/validation"
)

// OwnerDirectory confirma que un userID corresponde a una cuenta.
type OwnerDirectory interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// WeightReader lee el historial de pesos ya ordenado (lo cumple weights.Repository).
type WeightReader interface {
	ListByPet(ctx context.Context, petID int64) ([]weights.WeightLog, error)
	ListByPets(ctx context.Context, petIDs []int64) (map[int64][]weights.WeightLog, error)
}

// Profile es una mascota con su historial de pesos (measuredAt ASC).
type Profile struct {
	Pet     Pet
	Weights []weights.WeightLog
}

type Service struct {
	repo    Repository
	weights WeightReader
	owners  OwnerDirectory
	now     func() time.Time
}

func NewService(repo Repository, weights WeightReader, owners OwnerDirectory) *Service {
	return &Service{
		repo:    repo,
		weights: weights,
		owners:  owners,
		now:     time.Now,
	}
}

// Create registra una mascota para ownerID.
func (s *Service) Create(ctx context.Context, ownerID int64, in validation.PetFields) (Pet, error) {
	if ownerID <= 0 {
		return Pet{}, apperr.Unauthenticated("missing owner")
	}
	ok, err := s.owners.Exists(ctx, ownerID)
	if err != nil {
		return Pet{}, apperr.Persistence("Create pet", err)
	}
	if !ok {
		return Pet{}, apperr.Unauthenticated("unknown user")
	}

	owner := ownerID
	return s.insert(ctx, &owner, in)
}

// CreateUnowned registra una mascota sin dueño (seed / datos legacy).
func (s *Service) CreateUnowned(ctx context.Context, in validation.PetFields) (Pet, error) {
	return s.insert(ctx, nil, in)
}

func (s *Service) insert(ctx context.Context, owner *int64, in validation.PetFields) (Pet, error) {
	if in.Name == "" || in.Species == "" {
		return Pet{}, apperr.InvalidField("name", "name and species required", "name and species required")
	}
	if err := validation.CheckLifespan(in.BirthDate, in.DeathDate); err != nil {
		return Pet{}, err
	}

	gender := Gender(in.Gender)
	if gender == "" {
		gender = GenderUnknown
	}

	p := Pet{
		UserID:      owner,
		Name:        in.Name,
		Species:     in.Species,
		Breed:       in.Breed,
		Age:         in.Age,
		BirthDate:   in.BirthDate,
		DeathDate:   in.DeathDate,
		Gender:      gender,
		Neutered:    in.Neutered,
		Description: in.Description,
		CreatedAt:   s.now().UTC(),
	}
	s.deriveAge(&p)

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Pet{}, apperr.Persistence("Create pet", err)
	}
	return created, nil
}

// deriveAge pisa Age cuando hay BirthDate.
func (s *Service) deriveAge(p *Pet) {
	if p.BirthDate == nil {
		return
	}
	a := AgeAt(*p.BirthDate, s.now().UTC())
	p.Age = &a
}

// List devuelve las mascotas de ownerID, cada una con sus pesos.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Profile, error) {
	if ownerID <= 0 {
		return nil, apperr.Unauthenticated("missing owner")
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Persistence("List pets", err)
	}

	ids := make([]int64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}

	byPet := map[int64][]weights.WeightLog{}
	if len(ids) > 0 {
		byPet, err = s.weights.ListByPets(ctx, ids)
		if err != nil {
			return nil, apperr.Persistence("List pets", err)
		}
	}

	out := make([]Profile, 0, len(items))
	for _, p := range items {
		ws := byPet[p.ID]
		if ws == nil {
			ws = []weights.WeightLog{}
		}
		out = append(out, Profile{Pet: p, Weights: ws})
	}
	return out, nil
}

// Get devuelve una mascota de ownerID con su historial.
// Una mascota ajena se reporta como inexistente.
func (s *Service) Get(ctx context.Context, ownerID, petID int64) (Profile, error) {
	p, err := s.owned(ctx, ownerID, petID, "Get pet")
	if err != nil {
		return Profile{}, err
	}

	ws, err := s.weights.ListByPet(ctx, p.ID)
	if err != nil {
		return Profile{}, apperr.Persistence("Get pet", err)
	}
	if ws == nil {
		ws = []weights.WeightLog{}
	}
	return Profile{Pet: p, Weights: ws}, nil
}

// Update aplica un patch parcial. Nombre y especie no pueden quedar vacíos.
func (s *Service) Update(ctx context.Context, ownerID, petID int64, patch validation.PetPatch) (Pet, error) {
	p, err := s.owned(ctx, ownerID, petID, "Update pet")
	if err != nil {
		return Pet{}, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Species != nil {
		p.Species = *patch.Species
	}
	if patch.Breed.Set {
		p.Breed = patch.Breed.Value
	}
	if patch.Description.Set {
		p.Description = patch.Description.Value
	}
	if patch.Age.Set {
		p.Age = patch.Age.Value
	}
	if patch.BirthDate.Set {
		p.BirthDate = patch.BirthDate.Value
	}
	if patch.DeathDate.Set {
		p.DeathDate = patch.DeathDate.Value
	}
	if patch.Gender != nil {
		p.Gender = Gender(*patch.Gender)
	}
	if patch.Neutered != nil {
		p.Neutered = *patch.Neutered
	}

	if p.Name == "" || p.Species == "" {
		return Pet{}, apperr.InvalidField("name", "name and species required", "name and species required")
	}
	if err := validation.CheckLifespan(p.BirthDate, p.DeathDate); err != nil {
		return Pet{}, err
	}
	s.deriveAge(&p)

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Pet{}, apperr.NotFound("Pet")
		}
		return Pet{}, apperr.Persistence("Update pet", err)
	}
	return p, nil
}

// Delete borra la mascota y, con ella, su historial de pesos.
func (s *Service) Delete(ctx context.Context, ownerID, petID int64) error {
	if ownerID <= 0 {
		return apperr.Unauthenticated("missing owner")
	}
	if err := s.repo.Delete(ctx, petID, ownerID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("Pet")
		}
		return apperr.Persistence("Delete pet", err)
	}
	return nil
}

// AssignUnowned asigna a userID todas las mascotas sin dueño.
func (s *Service) AssignUnowned(ctx context.Context, userID int64) (int64, error) {
	ok, err := s.owners.Exists(ctx, userID)
	if err != nil {
		return 0, apperr.Persistence("Assign pets", err)
	}
	if !ok {
		return 0, apperr.NotFound("User")
	}
	n, err := s.repo.AssignUnowned(ctx, userID)
	if err != nil {
		return 0, apperr.Persistence("Assign pets", err)
	}
	return n, nil
}

func (s *Service) owned(ctx context.Context, ownerID, petID int64, op string) (Pet, error) {
	if ownerID <= 0 {
		return Pet{}, apperr.Unauthenticated("missing owner")
	}
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Pet{}, apperr.NotFound("Pet")
		}
		return Pet{}, apperr.Persistence(op, err)
	}
	if !p.OwnedBy(ownerID) {
		return Pet{}, apperr.NotFound("Pet")
	}
	return p, nil
}
