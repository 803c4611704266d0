package handler

import (
	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// --- Request / Response types ---

// userDto is the public wire form of an account. Roles travel as a single
// space-delimited string.
type userDto struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Roles    string `json:"roles"`
	Enabled  bool   `json:"enabled"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,password"`
	Roles    string `json:"roles" validate:"required"`
	Enabled  bool   `json:"enabled"`
}

type updateUserRequest struct {
	ID       int64  `json:"id"`
	Username string `json:"username" validate:"required,max=255"`
	Roles    string `json:"roles" validate:"required"`
	Enabled  bool   `json:"enabled"`
}

type changePasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

type loginResponse struct {
	UserInfo userDto `json:"userInfo"`
	Token    string  `json:"token"`
}

// --- Mapping ---

func toUserDto(d ports.UserDetail) userDto {
	return userDto{
		ID:       d.ID,
		Username: d.Username,
		Roles:    d.Roles.String(),
		Enabled:  d.Enabled,
	}
}

func toUserDtos(list []ports.UserDetail) []userDto {
	out := make([]userDto, 0, len(list))
	for _, d := range list {
		out = append(out, toUserDto(d))
	}
	return out
}

func (r createUserRequest) toInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		Username: r.Username,
		Password: r.Password,
		Roles:    domain.ParseRoles(r.Roles),
		Enabled:  r.Enabled,
	}
}

func (r updateUserRequest) toInput() ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Username: r.Username,
		Roles:    domain.ParseRoles(r.Roles),
		Enabled:  r.Enabled,
	}
}

func (r changePasswordRequest) toInput() ports.ChangePasswordInput {
	return ports.ChangePasswordInput{
		Username:    r.Username,
		OldPassword: r.OldPassword,
		NewPassword: r.NewPassword,
	}
}
