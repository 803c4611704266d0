package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// DefaultSeed is the initial directory loaded on first start.
var DefaultSeed = []ports.CreateUserInput{
	{Username: "john", Password: "123456", Roles: domain.NewRoles(domain.RoleAdmin, domain.RoleUser), Enabled: true},
	{Username: "eric", Password: "654321", Roles: domain.NewRoles(domain.RoleUser), Enabled: true},
	{Username: "tom", Password: "qwerty", Roles: domain.NewRoles(domain.RoleUser), Enabled: false},
}

// Seed creates each account whose username is not yet taken.
func Seed(ctx context.Context, repo ports.UserRepository, users ports.UserService, seed []ports.CreateUserInput, log zerolog.Logger) error {
	for _, in := range seed {
		_, err := repo.FindByUsername(ctx, in.Username)
		if err == nil {
			log.Debug().Str("username", in.Username).Msg("seed user already present")
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("seed %s: %w", in.Username, err)
		}
		if _, err := users.Create(ctx, in); err != nil {
			return fmt.Errorf("seed %s: %w", in.Username, err)
		}
	}
	return nil
}
