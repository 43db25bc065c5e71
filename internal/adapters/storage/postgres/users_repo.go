package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) (users.User, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, plan)
		VALUES ($1, $2)
		RETURNING id
	`, u.Email, string(u.Plan)).Scan(&u.ID)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return users.User{}, users.ErrEmailTaken
		}
		return users.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (users.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, plan FROM users WHERE id = $1
	`, id))
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, plan FROM users WHERE lower(email) = lower($1)
	`, email))
}

func (r *UsersRepo) scanOne(row *sql.Row) (users.User, error) {
	var (
		u    users.User
		plan string
	)
	if err := row.Scan(&u.ID, &u.Email, &plan); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, apperr.ErrNotFound
		}
		return users.User{}, err
	}
	u.Plan = users.Plan(plan)
	return u, nil
}
