package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// UserDetail is the public projection of an account. It never carries the
// password digest.
type UserDetail struct {
	ID       int64        `json:"id"`
	Username string       `json:"username"`
	Roles    domain.Roles `json:"roles"`
	Enabled  bool         `json:"enabled"`
}

// CreateUserInput carries a new account with its plaintext password.
type CreateUserInput struct {
	Username string
	Password string
	Roles    domain.Roles
	Enabled  bool
}

// UpdateUserInput carries the mutable, non-secret fields of an account.
type UpdateUserInput struct {
	Username string
	Roles    domain.Roles
	Enabled  bool
}

// ChangePasswordInput identifies the account by username.
type ChangePasswordInput struct {
	Username    string
	OldPassword string
	NewPassword string
}

// UserService defines the directory use cases.
type UserService interface {
	ListAll(ctx context.Context) ([]UserDetail, error)
	GetByID(ctx context.Context, id int64) (*UserDetail, error)
	Create(ctx context.Context, input CreateUserInput) (*UserDetail, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*UserDetail, error)
	ChangePassword(ctx context.Context, input ChangePasswordInput) (*UserDetail, error)
	Delete(ctx context.Context, id int64) error
}

// UserCache holds directory projections. A nil result with a nil error is a
// miss.
type UserCache interface {
	GetUser(ctx context.Context, id int64) (*UserDetail, error)
	SetUser(ctx context.Context, user UserDetail) error
	GetList(ctx context.Context) ([]UserDetail, error)
	SetList(ctx context.Context, users []UserDetail) error
	// Invalidate drops the entry for id and the cached list.
	Invalidate(ctx context.Context, id int64) error
}
