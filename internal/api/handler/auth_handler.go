package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/api/metrics"
	"github.com/99minutos/user-directory/internal/api/middleware"
	"github.com/99minutos/user-directory/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login mints a bearer token for a principal the Basic middleware has already
// authenticated.
//
// @Summary      Login
// @Tags         auth
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  loginResponse
// @Failure      401  {string}  string
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	result, err := h.authService.Login(c.Request().Context(), middleware.PrincipalFrom(c))
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.Inc()
	return c.JSON(http.StatusOK, loginResponse{
		UserInfo: toUserDto(result.UserInfo),
		Token:    result.Token,
	})
}
