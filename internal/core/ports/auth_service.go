package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// LoginResult is returned to a caller that authenticated with Basic credentials.
type LoginResult struct {
	UserInfo UserDetail
	Token    string
}

type AuthService interface {
	// Authenticate resolves a basic or bearer credential into a principal.
	Authenticate(ctx context.Context, cred domain.Credential) (*domain.Principal, error)
	// Login issues a token for a principal produced by the basic flow.
	Login(ctx context.Context, principal *domain.Principal) (*LoginResult, error)
}
