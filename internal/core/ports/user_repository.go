package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Implementations return domain.ErrUserNotFound for missing rows and
// domain.ErrUserExists when a username is already taken.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindAll returns every account in store order.
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Save inserts the user when ID is zero (assigning the ID) and replaces
	// the stored row otherwise.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
