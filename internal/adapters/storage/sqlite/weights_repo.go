package sqlite

import (
	"context"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/weights"

	"gorm.io/gorm"
)

type WeightsRepo struct {
	db *gorm.DB
}

func NewWeightsRepo(db *gorm.DB) *WeightsRepo {
	return &WeightsRepo{db: db}
}

func (r *WeightsRepo) Create(ctx context.Context, w weights.WeightLog) (weights.WeightLog, error) {
	m := WeightLogModel{PetID: w.PetID, WeightKg: w.WeightKg, MeasuredAt: w.MeasuredAt.UTC()}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isForeignKeyViolation(err) {
			return weights.WeightLog{}, ErrForeignKey
		}
		return weights.WeightLog{}, err
	}
	return toWeight(m), nil
}

func (r *WeightsRepo) ListByPet(ctx context.Context, petID int64) ([]weights.WeightLog, error) {
	rows := make([]WeightLogModel, 0)
	if err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("measured_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]weights.WeightLog, 0, len(rows))
	for _, m := range rows {
		out = append(out, toWeight(m))
	}
	return out, nil
}

func (r *WeightsRepo) ListByPets(ctx context.Context, petIDs []int64) (map[int64][]weights.WeightLog, error) {
	out := make(map[int64][]weights.WeightLog, len(petIDs))
	if len(petIDs) == 0 {
		return out, nil
	}

	rows := make([]WeightLogModel, 0)
	if err := r.db.WithContext(ctx).
		Where("pet_id IN ?", petIDs).
		Order("pet_id ASC, measured_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, m := range rows {
		out[m.PetID] = append(out[m.PetID], toWeight(m))
	}
	return out, nil
}

// Update matchea por (id, pet_id) y devuelve la fila resultante.
func (r *WeightsRepo) Update(ctx context.Context, id, petID int64, in weights.UpdateInput) (weights.WeightLog, error) {
	var out WeightLogModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changes := map[string]any{"weight_kg": in.WeightKg}
		if in.MeasuredAt != nil {
			changes["measured_at"] = in.MeasuredAt.UTC()
		}

		res := tx.Model(&WeightLogModel{}).Where("id = ? AND pet_id = ?", id, petID).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return weights.WeightLog{}, notFound(err)
	}
	return toWeight(out), nil
}

func (r *WeightsRepo) Delete(ctx context.Context, id, petID int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND pet_id = ?", id, petID).Delete(&WeightLogModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func toWeight(m WeightLogModel) weights.WeightLog {
	return weights.WeightLog{
		ID:         m.ID,
		PetID:      m.PetID,
		WeightKg:   m.WeightKg,
		MeasuredAt: m.MeasuredAt.UTC(),
	}
}
