package users

import (
	"context"
	"errors"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create da de alta un usuario (onboarding). plan vacío = free.
func (s *Service) Create(ctx context.Context, email, plan string) (User, error) {
	e, err := validation.Email(email)
	if err != nil {
		return User{}, err
	}
	p, err := validation.Plan(plan)
	if err != nil {
		return User{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, e); err == nil {
		return User{}, apperr.InvalidField("email", ErrEmailTaken.Error(), "Email already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return User{}, apperr.Persistence("Create user", err)
	}

	u, err := s.repo.Create(ctx, User{Email: e, Plan: Plan(p)})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, apperr.InvalidField("email", ErrEmailTaken.Error(), "Email already registered")
		}
		return User{}, apperr.Persistence("Create user", err)
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return User{}, apperr.NotFound("User")
		}
		return User{}, apperr.Persistence("Get user", err)
	}
	return u, nil
}

// Exists responde si hay una cuenta con ese id.
// Se usa desde pets para validar el owner sin importar este paquete.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	_, err := s.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperr.ErrNotFound):
		return false, nil
	default:
		return false, apperr.Persistence("Get user", err)
	}
}
