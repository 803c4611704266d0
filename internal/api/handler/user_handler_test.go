package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

func newRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_FindAll(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		listFn: func(context.Context) ([]ports.UserDetail, error) {
			return []ports.UserDetail{
				{ID: 1, Username: "john", Roles: domain.NewRoles("admin", "user"), Enabled: true},
				{ID: 2, Username: "eric", Roles: domain.NewRoles("user"), Enabled: true},
			}, nil
		},
	})

	c, rec := newRequest(e, http.MethodGet, "/api/v1/users", "")
	if err := h.FindAll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 || got[0]["roles"] != "admin user" || got[0]["username"] != "john" {
		t.Fatalf("unexpected payload: %v", got)
	}
	if _, leaked := got[0]["password"]; leaked {
		t.Fatalf("password must not be rendered")
	}
}

func TestUserHandler_FindByID_NotFound(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		getFn: func(_ context.Context, id int64) (*ports.UserDetail, error) {
			return nil, domain.NewNotFound("user", id)
		},
	})

	c, _ := newRequest(e, http.MethodGet, "/api/v1/users/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := h.FindByID(c)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.ID != int64(99) {
		t.Fatalf("expected NotFoundError for 99, got %v", err)
	}
}

func TestUserHandler_FindByID_BadID(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{})

	c, _ := newRequest(e, http.MethodGet, "/api/v1/users/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	var he *echo.HTTPError
	if err := h.FindByID(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Create(t *testing.T) {
	e := newEcho()
	var captured ports.CreateUserInput
	h := NewUserHandler(&stubUserService{
		createFn: func(_ context.Context, in ports.CreateUserInput) (*ports.UserDetail, error) {
			captured = in
			return &ports.UserDetail{ID: 4, Username: in.Username, Roles: in.Roles, Enabled: in.Enabled}, nil
		},
	})

	c, rec := newRequest(e, http.MethodPost, "/api/v1/users", `{"username":"anna","password":"s3cret","roles":"admin user","enabled":true}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Password != "s3cret" || !reflect.DeepEqual(captured.Roles, domain.Roles{"admin", "user"}) {
		t.Fatalf("unexpected input: %+v", captured)
	}
	if strings.Contains(rec.Body.String(), "s3cret") {
		t.Fatalf("response leaked the password: %s", rec.Body.String())
	}
}

func TestUserHandler_Create_Validation(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{})

	c, _ := newRequest(e, http.MethodPost, "/api/v1/users", `{"username":"","enabled":true}`)
	err := h.Create(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"username", "password", "roles"} {
		if ve.Fields[field] == "" {
			t.Fatalf("missing message for %q: %v", field, ve.Fields)
		}
	}
}

func TestUserHandler_Create_BadJSON(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{})

	c, _ := newRequest(e, http.MethodPost, "/api/v1/users", `{"username":`)
	var he *echo.HTTPError
	if err := h.Create(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Update(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		updateFn: func(_ context.Context, id int64, in ports.UpdateUserInput) (*ports.UserDetail, error) {
			if id != 2 || in.Username != "eric2" || in.Enabled {
				t.Fatalf("unexpected update: %d %+v", id, in)
			}
			return &ports.UserDetail{ID: id, Username: in.Username, Roles: in.Roles}, nil
		},
	})

	c, rec := newRequest(e, http.MethodPut, "/api/v1/users/2", `{"id":2,"username":"eric2","roles":"user","enabled":false}`)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var got userDto
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != 2 || got.Username != "eric2" || got.Roles != "user" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		resetFn: func(_ context.Context, in ports.ChangePasswordInput) (*ports.UserDetail, error) {
			if in.Username != "john" || in.OldPassword != "123456" || in.NewPassword != "x" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.UserDetail{ID: 1, Username: "john"}, nil
		},
	})

	c, rec := newRequest(e, http.MethodPost, "/api/v1/users/reset", `{"username":"john","oldPassword":"123456","newPassword":"x"}`)
	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "Password changed successfully" {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_ChangePassword_Incorrect(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		resetFn: func(context.Context, ports.ChangePasswordInput) (*ports.UserDetail, error) {
			return nil, domain.ErrIncorrectOldPassword
		},
	})

	c, _ := newRequest(e, http.MethodPost, "/api/v1/users/reset", `{"username":"john","oldPassword":"wrong","newPassword":"x"}`)
	if err := h.ChangePassword(c); !errors.Is(err, domain.ErrIncorrectOldPassword) {
		t.Fatalf("expected ErrIncorrectOldPassword, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newEcho()
	var deleted int64
	h := NewUserHandler(&stubUserService{
		deleteFn: func(_ context.Context, id int64) error {
			deleted = id
			return nil
		},
	})

	c, rec := newRequest(e, http.MethodDelete, "/api/v1/users/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 || deleted != 3 {
		t.Fatalf("unexpected response: code=%d body=%q deleted=%d", rec.Code, rec.Body.String(), deleted)
	}
}
