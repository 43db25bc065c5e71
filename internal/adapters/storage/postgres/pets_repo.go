package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/pets"
)

const petColumns = `
	id, user_id,
	name, species, breed, age,
	birth_date, death_date,
	gender, neutered, description,
	created_at`

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pets (
			user_id,
			name, species, breed, age,
			birth_date, death_date,
			gender, neutered, description,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at
	`,
		toNullInt64(p.UserID),
		p.Name,
		p.Species,
		toNullString(p.Breed),
		toNullInt32(p.Age),
		toNullDate(p.BirthDate),
		toNullDate(p.DeathDate),
		string(p.Gender),
		p.Neutered,
		toNullString(p.Description),
		p.CreatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return pets.Pet{}, ErrForeignKey
		}
		return pets.Pet{}, err
	}
	// TIMESTAMPTZ guarda microsegundos; se devuelve lo que quedó en la fila.
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// Update matchea por (id, user_id). created_at no se toca.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $3,
			species = $4,
			breed = $5,
			age = $6,
			birth_date = $7,
			death_date = $8,
			gender = $9,
			neutered = $10,
			description = $11
		WHERE id = $1 AND user_id = $2
	`,
		p.ID,
		toNullInt64(p.UserID),
		p.Name,
		p.Species,
		toNullString(p.Breed),
		toNullInt32(p.Age),
		toNullDate(p.BirthDate),
		toNullDate(p.DeathDate),
		string(p.Gender),
		p.Neutered,
		toNullString(p.Description),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete: los weight_logs caen por ON DELETE CASCADE.
func (r *PetsRepo) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)

	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, apperr.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, userID int64) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE user_id = $1
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) AssignUnowned(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE pets SET user_id = $1 WHERE user_id IS NULL`, userID)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return 0, ErrForeignKey
		}
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(s rowScanner) (pets.Pet, error) {
	var (
		p           pets.Pet
		userID      sql.NullInt64
		breed, desc sql.NullString
		age         sql.NullInt32
		bd, dd      sql.NullTime
		gender      string
	)
	if err := s.Scan(
		&p.ID,
		&userID,
		&p.Name,
		&p.Species,
		&breed,
		&age,
		&bd,
		&dd,
		&gender,
		&p.Neutered,
		&desc,
		&p.CreatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	if userID.Valid {
		v := userID.Int64
		p.UserID = &v
	}
	if age.Valid {
		v := int(age.Int32)
		p.Age = &v
	}
	p.Breed = fromNullString(breed)
	p.Description = fromNullString(desc)
	p.BirthDate = fromNullDate(bd)
	p.DeathDate = fromNullDate(dd)
	p.Gender = pets.Gender(gender)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func toNullInt32(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}
