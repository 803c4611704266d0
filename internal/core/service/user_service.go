package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

const entityUser = "user"

// UserService implements the directory use cases.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	cache  ports.UserCache
	log    zerolog.Logger
}

// NewUserService returns a UserService. cache may be nil.
func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, cache ports.UserCache, log zerolog.Logger) *UserService {
	if cache == nil {
		cache = noopCache{}
	}
	return &UserService{repo: repo, hasher: hasher, cache: cache, log: log}
}

// ListAll returns every account in store order.
func (s *UserService) ListAll(ctx context.Context) ([]ports.UserDetail, error) {
	if cached, err := s.cache.GetList(ctx); err != nil {
		s.log.Warn().Err(err).Msg("user list cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]ports.UserDetail, 0, len(users))
	for _, u := range users {
		out = append(out, toDetail(u))
	}

	if err := s.cache.SetList(ctx, out); err != nil {
		s.log.Warn().Err(err).Msg("user list cache write failed")
	}
	return out, nil
}

// GetByID returns a single account or a NotFoundError.
func (s *UserService) GetByID(ctx context.Context, id int64) (*ports.UserDetail, error) {
	if cached, err := s.cache.GetUser(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("user cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	user, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := toDetail(user)
	if err := s.cache.SetUser(ctx, detail); err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("user cache write failed")
	}
	return &detail, nil
}

// Create hashes the plaintext password and persists a new account.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*ports.UserDetail, error) {
	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	saved, err := s.repo.Save(ctx, &domain.User{
		Username:     input.Username,
		PasswordHash: digest,
		Roles:        domain.NewRoles(input.Roles...),
		Enabled:      input.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.invalidate(ctx, saved.ID)
	s.log.Info().Int64("user_id", saved.ID).Str("username", saved.Username).Msg("user created")

	detail := toDetail(saved)
	return &detail, nil
}

// Update overwrites username, roles and enabled. The digest is left alone.
func (s *UserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*ports.UserDetail, error) {
	user, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.Roles = domain.NewRoles(input.Roles...)
	user.Enabled = input.Enabled

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.invalidate(ctx, id)
	s.log.Info().Int64("user_id", id).Msg("user updated")

	detail := toDetail(saved)
	return &detail, nil
}

// ChangePassword replaces the digest after checking the old password.
func (s *UserService) ChangePassword(ctx context.Context, input ports.ChangePasswordInput) (*ports.UserDetail, error) {
	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("change password: %w", err)
	}

	if !s.hasher.Verify(input.OldPassword, user.PasswordHash) {
		return nil, domain.ErrIncorrectOldPassword
	}

	digest, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}
	user.PasswordHash = digest

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}

	s.invalidate(ctx, saved.ID)
	s.log.Info().Int64("user_id", saved.ID).Msg("password changed")

	detail := toDetail(saved)
	return &detail, nil
}

// Delete removes an account or returns a NotFoundError.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NewNotFound(entityUser, id)
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.invalidate(ctx, id)
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) findByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewNotFound(entityUser, id)
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return user, nil
}

func (s *UserService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("user cache invalidation failed")
	}
}

func toDetail(u *domain.User) ports.UserDetail {
	return ports.UserDetail{
		ID:       u.ID,
		Username: u.Username,
		Roles:    append(domain.Roles{}, u.Roles...),
		Enabled:  u.Enabled,
	}
}

type noopCache struct{}

func (noopCache) GetUser(context.Context, int64) (*ports.UserDetail, error) { return nil, nil }
func (noopCache) SetUser(context.Context, ports.UserDetail) error          { return nil }
func (noopCache) GetList(context.Context) ([]ports.UserDetail, error)      { return nil, nil }
func (noopCache) SetList(context.Context, []ports.UserDetail) error        { return nil }
func (noopCache) Invalidate(context.Context, int64) error                  { return nil }
