package pets

import (
	"context"
	"errors"

	"pet-weight-tracker/internal/apperr"
)

// OwnerOf expone el userID dueño de una mascota (0 si no tiene).
// Se usa para evitar ciclos de imports entre módulos (pets <-> weights).
func (s *Service) OwnerOf(ctx context.Context, petID int64) (int64, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return 0, apperr.NotFound("Pet")
		}
		return 0, apperr.Persistence("Get pet", err)
	}
	if p.UserID == nil {
		return 0, nil
	}
	return *p.UserID, nil
}
