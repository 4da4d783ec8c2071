package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/a2tp3/library-api/internal/core/ports"
)

// UserHandler serves /api/usuarios.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a user account. Open to anonymous callers.
//
// @Summary      Register a user
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/usuarios [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), ports.UserInput{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return created(c, fmt.Sprintf("/api/usuarios/%d", user.ID), toUserResponse(user))
}

// List returns every user.
//
// @Summary      List users
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/usuarios [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(users, toUserResponse))
}

// Get returns one user.
//
// @Summary      Get a user
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/usuarios/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Replace overwrites a user. An empty password keeps the current one.
//
// @Summary      Replace a user
// @Tags         usuarios
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int          true  "User id"
// @Param        body  body  userRequest  true  "User"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/usuarios/{id} [put]
func (h *UserHandler) Replace(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.Replace(c.Request().Context(), id, toUserInput(req)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a user.
//
// @Summary      Delete a user
// @Tags         usuarios
// @Security     BearerAuth
// @Param        id   path  int  true  "User id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/usuarios/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
