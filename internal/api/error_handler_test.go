package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not found", fmt.Errorf("get: %w", domain.NewNotFound("user", 7)), http.StatusNotFound, "Could not find user with Id 7"},
		{"bare not found", domain.ErrNotFound, http.StatusNotFound, "not found"},
		{"bad credentials", domain.ErrBadCredentials, http.StatusUnauthorized, "username or password is incorrect"},
		{"unknown user", domain.ErrUserNotFound, http.StatusUnauthorized, "username or password is incorrect"},
		{"disabled", domain.ErrAccountDisabled, http.StatusUnauthorized, "User is disabled"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, domain.ErrUnauthenticated.Error()},
		{"access denied", domain.ErrAccessDenied, http.StatusForbidden, domain.ErrAccessDenied.Error()},
		{"old password", domain.ErrIncorrectOldPassword, http.StatusBadRequest, "Incorrect old Password"},
		{"exists", fmt.Errorf("create user: %w", domain.ErrUserExists), http.StatusConflict, domain.ErrUserExists.Error()},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError, "db down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := resolveError(tc.err)
			if code != tc.code || body != tc.body {
				t.Fatalf("got (%d, %q), want (%d, %q)", code, body, tc.code, tc.body)
			}
		})
	}
}

func TestResolveError_InvalidTokenKeepsCause(t *testing.T) {
	code, body := resolveError(fmt.Errorf("%w: token is expired", domain.ErrInvalidToken))
	if code != http.StatusUnauthorized || !strings.Contains(body, "token is expired") {
		t.Fatalf("got (%d, %q)", code, body)
	}
}

func TestHTTPErrorHandler_ValidationRendersFieldMap(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/users", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(&domain.ValidationError{Fields: map[string]string{"username": "must not be empty"}}, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var fields map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &fields); err != nil || fields["username"] != "must not be empty" {
		t.Fatalf("unexpected body %q (%v)", rec.Body.String(), err)
	}
}

func TestHTTPErrorHandler_LogsUnexpected(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil), rec)

	NewHTTPErrorHandler(log)(errors.New("connection reset"), c)

	if rec.Code != http.StatusInternalServerError || rec.Body.String() != "connection reset" {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
	if !strings.Contains(buf.String(), "connection reset") || !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error log, got %q", buf.String())
	}
}

func TestHTTPErrorHandler_DomainErrorsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/v1/users/1", nil), rec)

	NewHTTPErrorHandler(log)(domain.ErrAccessDenied, c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no log output, got %q", buf.String())
	}
}
