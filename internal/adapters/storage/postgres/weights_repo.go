package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/weights"
)

type WeightsRepo struct {
	db *sql.DB
}

func NewWeightsRepo(db *sql.DB) *WeightsRepo {
	return &WeightsRepo{db: db}
}

func (r *WeightsRepo) Create(ctx context.Context, w weights.WeightLog) (weights.WeightLog, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO weight_logs (pet_id, weight_kg, measured_at)
		VALUES ($1, $2, $3)
		RETURNING id, measured_at
	`, w.PetID, w.WeightKg, w.MeasuredAt).Scan(&w.ID, &w.MeasuredAt)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return weights.WeightLog{}, ErrForeignKey
		}
		return weights.WeightLog{}, err
	}
	w.MeasuredAt = w.MeasuredAt.UTC()
	return w, nil
}

func (r *WeightsRepo) ListByPet(ctx context.Context, petID int64) ([]weights.WeightLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, weight_kg, measured_at
		FROM weight_logs
		WHERE pet_id = $1
		ORDER BY measured_at ASC, id ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]weights.WeightLog, 0)
	for rows.Next() {
		w, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *WeightsRepo) ListByPets(ctx context.Context, petIDs []int64) (map[int64][]weights.WeightLog, error) {
	out := make(map[int64][]weights.WeightLog, len(petIDs))
	if len(petIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, weight_kg, measured_at
		FROM weight_logs
		WHERE pet_id = ANY($1)
		ORDER BY pet_id, measured_at ASC, id ASC
	`, petIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		w, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		out[w.PetID] = append(out[w.PetID], w)
	}
	return out, rows.Err()
}

// Update matchea por (id, pet_id). measured_at NULL en el input = no tocar.
func (r *WeightsRepo) Update(ctx context.Context, id, petID int64, in weights.UpdateInput) (weights.WeightLog, error) {
	var measured sql.NullTime
	if in.MeasuredAt != nil {
		measured = sql.NullTime{Time: *in.MeasuredAt, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE weight_logs
		SET
			weight_kg = $3,
			measured_at = COALESCE($4, measured_at)
		WHERE id = $1 AND pet_id = $2
		RETURNING id, pet_id, weight_kg, measured_at
	`, id, petID, in.WeightKg, measured)

	w, err := scanWeight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return weights.WeightLog{}, apperr.ErrNotFound
		}
		return weights.WeightLog{}, err
	}
	return w, nil
}

func (r *WeightsRepo) Delete(ctx context.Context, id, petID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weight_logs WHERE id = $1 AND pet_id = $2`, id, petID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func scanWeight(s rowScanner) (weights.WeightLog, error) {
	var w weights.WeightLog
	if err := s.Scan(&w.ID, &w.PetID, &w.WeightKg, &w.MeasuredAt); err != nil {
		return weights.WeightLog{}, err
	}
	w.MeasuredAt = w.MeasuredAt.UTC()
	return w, nil
}
