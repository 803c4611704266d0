package middleware

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/api/metrics"
	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// Scheme names the single Authorization scheme a route accepts.
type Scheme string

const (
	SchemeBasic  Scheme = "basic"
	SchemeBearer Scheme = "bearer"
)

const principalKey = "principal"

// Challenge returns the WWW-Authenticate value sent with a 401 for the scheme.
func (s Scheme) Challenge() string {
	if s == SchemeBasic {
		return `Basic realm="Realm"`
	}
	return "Bearer"
}

// Authenticate parses the Authorization header for the given scheme, resolves
// it through authn and stores the principal on the echo context.
func Authenticate(authn ports.AuthService, scheme Scheme) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cred, err := parseAuthorization(c.Request().Header.Get(echo.HeaderAuthorization), scheme)
			if err == nil {
				var p *domain.Principal
				p, err = authn.Authenticate(c.Request().Context(), cred)
				if err == nil {
					metrics.AuthAttemptsTotal.WithLabelValues(string(scheme), "success").Inc()
					SetPrincipal(c, p)
					return next(c)
				}
			}

			metrics.AuthAttemptsTotal.WithLabelValues(string(scheme), outcome(err)).Inc()
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, scheme.Challenge())
			return err
		}
	}
}

// SetPrincipal stores p as the request principal.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the request principal, or nil when the request was
// not authenticated.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

func parseAuthorization(header string, scheme Scheme) (domain.Credential, error) {
	if header == "" {
		return nil, domain.ErrUnauthenticated
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], string(scheme)) {
		return nil, domain.ErrUnauthenticated
	}
	value := strings.TrimSpace(parts[1])

	switch scheme {
	case SchemeBasic:
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, domain.ErrUnauthenticated
		}
		username, password, ok := strings.Cut(string(raw), ":")
		if !ok {
			return nil, domain.ErrUnauthenticated
		}
		return domain.BasicCredential{Username: username, Password: password}, nil
	case SchemeBearer:
		if value == "" {
			return nil, domain.ErrUnauthenticated
		}
		return domain.BearerCredential{Token: value}, nil
	}
	return nil, domain.ErrUnauthenticated
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrBadCredentials), errors.Is(err, domain.ErrUserNotFound):
		return "bad_credentials"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "disabled"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	default:
		return "error"
	}
}
