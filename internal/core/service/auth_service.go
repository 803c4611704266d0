package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// AuthService implements the basic and bearer authentication flows.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// Authenticate resolves cred into a principal.
func (s *AuthService) Authenticate(ctx context.Context, cred domain.Credential) (*domain.Principal, error) {
	switch c := cred.(type) {
	case domain.BasicCredential:
		return s.authenticateBasic(ctx, c)
	case domain.BearerCredential:
		return s.authenticateBearer(c)
	default:
		return nil, domain.ErrUnauthenticated
	}
}

func (s *AuthService) authenticateBasic(ctx context.Context, c domain.BasicCredential) (*domain.Principal, error) {
	if c.Username == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.repo.FindByUsername(ctx, c.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("username", c.Username).Msg("login for unknown user")
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !user.Enabled {
		s.log.Debug().Str("username", c.Username).Msg("login for disabled user")
		return nil, domain.ErrAccountDisabled
	}

	if !s.hasher.Verify(c.Password, user.PasswordHash) {
		s.log.Debug().Str("username", c.Username).Msg("login with bad password")
		return nil, domain.ErrBadCredentials
	}

	return domain.NewPrincipal(user), nil
}

// authenticateBearer trusts the token claims; the store is not consulted, so
// role or enabled changes apply only once a new token is issued.
func (s *AuthService) authenticateBearer(c domain.BearerCredential) (*domain.Principal, error) {
	if c.Token == "" {
		return nil, domain.ErrUnauthenticated
	}
	principal, err := s.tokens.Verify(c.Token)
	if err != nil {
		s.log.Debug().Err(err).Msg("bearer token rejected")
		return nil, err
	}
	return principal, nil
}

// Login issues a token for a principal from the basic flow.
func (s *AuthService) Login(_ context.Context, principal *domain.Principal) (*ports.LoginResult, error) {
	if principal == nil || principal.User == nil {
		return nil, domain.ErrUnauthenticated
	}

	token, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("username", principal.Username).Msg("token issued")

	return &ports.LoginResult{
		UserInfo: toDetail(principal.User),
		Token:    token,
	}, nil
}
