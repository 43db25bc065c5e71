package sqlite

import (
	"context"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/pets"

	"gorm.io/gorm"
)

type PetsRepo struct {
	db *gorm.DB
}

func NewPetsRepo(db *gorm.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	m := fromPet(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return pets.Pet{}, ErrForeignKey
		}
		return pets.Pet{}, err
	}
	return toPet(m), nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	var m PetModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return pets.Pet{}, notFound(err)
	}
	return toPet(m), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, userID int64) ([]pets.Pet, error) {
	rows := make([]PetModel, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]pets.Pet, 0, len(rows))
	for _, m := range rows {
		out = append(out, toPet(m))
	}
	return out, nil
}

// Update escribe todas las columnas editables (incluidos los NULL) salvo created_at.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	if p.UserID == nil {
		return apperr.ErrNotFound
	}

	res := r.db.WithContext(ctx).
		Model(&PetModel{}).
		Where("id = ? AND user_id = ?", p.ID, *p.UserID).
		Updates(map[string]any{
			"name":        p.Name,
			"species":     p.Species,
			"breed":       p.Breed,
			"age":         p.Age,
			"birth_date":  p.BirthDate,
			"death_date":  p.DeathDate,
			"gender":      string(p.Gender),
			"neutered":    p.Neutered,
			"description": p.Description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete: los weight_logs caen por ON DELETE CASCADE.
func (r *PetsRepo) Delete(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&PetModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) AssignUnowned(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&PetModel{}).
		Where("user_id IS NULL").
		Update("user_id", userID)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return 0, ErrForeignKey
		}
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func fromPet(p pets.Pet) PetModel {
	return PetModel{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         p.Age,
		BirthDate:   p.BirthDate,
		DeathDate:   p.DeathDate,
		Gender:      string(p.Gender),
		Neutered:    p.Neutered,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func toPet(m PetModel) pets.Pet {
	p := pets.Pet{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Species:     m.Species,
		Breed:       m.Breed,
		Age:         m.Age,
		Gender:      pets.Gender(m.Gender),
		Neutered:    m.Neutered,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if m.BirthDate != nil {
		t := m.BirthDate.UTC()
		p.BirthDate = &t
	}
	if m.DeathDate != nil {
		t := m.DeathDate.UTC()
		p.DeathDate = &t
	}
	return p
}
