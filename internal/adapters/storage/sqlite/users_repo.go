package sqlite

import (
	"context"
	"errors"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/users"

	"gorm.io/gorm"
)

type UsersRepo struct {
	db *gorm.DB
}

func NewUsersRepo(db *gorm.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) (users.User, error) {
	m := UserModel{Email: u.Email, Plan: string(u.Plan)}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return users.User{}, users.ErrEmailTaken
		}
		return users.User{}, err
	}
	return toUser(m), nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (users.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return users.User{}, notFound(err)
	}
	return toUser(m), nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).First(&m, "lower(email) = lower(?)", email).Error; err != nil {
		return users.User{}, notFound(err)
	}
	return toUser(m), nil
}

func toUser(m UserModel) users.User {
	return users.User{ID: m.ID, Email: m.Email, Plan: users.Plan(m.Plan)}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}
