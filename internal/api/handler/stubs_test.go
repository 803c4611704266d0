package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

var errNotStubbed = errors.New("not stubbed")

type stubUserService struct {
	listFn   func(ctx context.Context) ([]ports.UserDetail, error)
	getFn    func(ctx context.Context, id int64) (*ports.UserDetail, error)
	createFn func(ctx context.Context, in ports.CreateUserInput) (*ports.UserDetail, error)
	updateFn func(ctx context.Context, id int64, in ports.UpdateUserInput) (*ports.UserDetail, error)
	resetFn  func(ctx context.Context, in ports.ChangePasswordInput) (*ports.UserDetail, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubUserService) ListAll(ctx context.Context) ([]ports.UserDetail, error) {
	if s.listFn == nil {
		return nil, errNotStubbed
	}
	return s.listFn(ctx)
}

func (s *stubUserService) GetByID(ctx context.Context, id int64) (*ports.UserDetail, error) {
	if s.getFn == nil {
		return nil, errNotStubbed
	}
	return s.getFn(ctx, id)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*ports.UserDetail, error) {
	if s.createFn == nil {
		return nil, errNotStubbed
	}
	return s.createFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*ports.UserDetail, error) {
	if s.updateFn == nil {
		return nil, errNotStubbed
	}
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) (*ports.UserDetail, error) {
	if s.resetFn == nil {
		return nil, errNotStubbed
	}
	return s.resetFn(ctx, in)
}

func (s *stubUserService) Delete(ctx context.Context, id int64) error {
	if s.deleteFn == nil {
		return errNotStubbed
	}
	return s.deleteFn(ctx, id)
}

type stubAuthService struct {
	loginFn func(ctx context.Context, p *domain.Principal) (*ports.LoginResult, error)
}

func (s *stubAuthService) Authenticate(context.Context, domain.Credential) (*domain.Principal, error) {
	return nil, errNotStubbed
}

func (s *stubAuthService) Login(ctx context.Context, p *domain.Principal) (*ports.LoginResult, error) {
	return s.loginFn(ctx, p)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}
