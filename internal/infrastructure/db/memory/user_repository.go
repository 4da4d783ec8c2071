package memory

import (
	"context"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.loginTaken(user.Login, 0) {
		return nil, domain.ErrLoginTaken
	}

	u := *user
	u.ID = r.s.nextID("users")
	r.s.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; u.Login == login {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		out = append(out, &u)
	}
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if r.loginTaken(user.Login, user.ID) {
		return domain.ErrLoginTaken
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

// loginTaken reports whether a user other than exceptID owns login.
func (r *UserRepository) loginTaken(login string, exceptID int64) bool {
	for id, u := range r.s.users {
		if id != exceptID && u.Login == login {
			return true
		}
	}
	return false
}
