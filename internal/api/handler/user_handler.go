package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/api/metrics"
	"github.com/99minutos/user-directory/internal/core/ports"
)

const passwordChanged = "Password changed successfully"

// UserHandler handles HTTP requests for directory operations. Errors are
// returned to the echo error handler for translation.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// FindAll handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userDto
// @Failure      401  {string}  string
// @Failure      403  {string}  string
// @Router       /users [get]
func (h *UserHandler) FindAll(c echo.Context) error {
	list, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDtos(list))
}

// FindByID handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userDto
// @Failure      401  {string}  string
// @Failure      403  {string}  string
// @Failure      404  {string}  string
// @Router       /users/{id} [get]
func (h *UserHandler) FindByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	detail, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDto(*detail))
}

// Create handles POST /users. The body carries the plaintext password.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      200   {object}  userDto
// @Failure      400   {object}  map[string]string
// @Failure      403   {string}  string
// @Failure      409   {string}  string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	detail, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusOK, toUserDto(*detail))
}

// Update handles PUT /users/:id. Passwords are never changed here.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "User fields"
// @Success      200   {object}  userDto
// @Failure      400   {object}  map[string]string
// @Failure      403   {string}  string
// @Failure      404   {string}  string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	detail, err := h.service.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toUserDto(*detail))
}

// ChangePassword handles POST /users/reset.
//
// @Summary      Change a password
// @Tags         users
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {string}  string
// @Failure      400   {string}  string
// @Failure      401   {string}  string
// @Router       /users/reset [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.service.ChangePassword(c.Request().Context(), req.toInput()); err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("change_password").Inc()
	return c.String(http.StatusOK, passwordChanged)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User id"
// @Success      200
// @Failure      403  {string}  string
// @Failure      404  {string}  string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusOK)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
