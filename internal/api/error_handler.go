package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
)

const (
	msgBadCredentials   = "username or password is incorrect"
	msgAccountDisabled  = "User is disabled"
	msgIncorrectOldPass = "Incorrect old Password"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// failures to a status and body. Validation failures render a JSON field map;
// everything else is plain text.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, ve.Fields)
			return
		}

		code, msg := resolveError(err)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.String(code, msg)
	}
}

// resolveError is the pure failure-kind → (status, body) mapping.
func resolveError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return http.StatusNotFound, nf.Error()
		}
		return http.StatusNotFound, domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrBadCredentials), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, msgBadCredentials
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusUnauthorized, msgAccountDisabled
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, domain.ErrUnauthenticated.Error()
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, domain.ErrAccessDenied.Error()
	case errors.Is(err, domain.ErrIncorrectOldPassword):
		return http.StatusBadRequest, msgIncorrectOldPass
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, domain.ErrUserExists.Error()
	}

	// Echo's own errors (route 404/405, bind failures).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: the message goes back, the cause is logged.
	return http.StatusInternalServerError, err.Error()
}
