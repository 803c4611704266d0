// Package memory provides a process-local credential store used for
// development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// UserRepository keeps users in insertion order behind a RWMutex.
type UserRepository struct {
	mu     sync.RWMutex
	users  []*domain.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1}
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.users[i].Clone(), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (r *UserRepository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username && u.ID != user.ID {
			return nil, domain.ErrUserExists
		}
	}

	stored := user.Clone()
	if stored.ID == 0 {
		stored.ID = r.nextID
		r.nextID++
		r.users = append(r.users, stored)
		return stored.Clone(), nil
	}

	i := r.indexOf(stored.ID)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	r.users[i] = stored
	return stored.Clone(), nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (r *UserRepository) indexOf(id int64) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
