package ports

import "github.com/99minutos/user-directory/internal/core/domain"

// PasswordHasher is a one-way adaptive hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenService signs and verifies bearer tokens.
type TokenService interface {
	Issue(principal *domain.Principal) (string, error)
	// Verify returns domain.ErrInvalidToken (wrapped) for any bad token.
	Verify(token string) (*domain.Principal, error)
}
