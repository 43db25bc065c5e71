package memory

import (
	"context"
	"strings"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/domain/users"
)

type usersRepo struct {
	s *Store
}

func (r *usersRepo) Create(_ context.Context, u users.User) (users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return users.User{}, users.ErrEmailTaken
		}
	}

	r.s.userSeq++
	u.ID = r.s.userSeq
	r.s.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) GetByID(_ context.Context, id int64) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return users.User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(_ context.Context, email string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return users.User{}, apperr.ErrNotFound
}
