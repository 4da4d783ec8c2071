package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/a2tp3/library-api/internal/core/ports"
)

// CategoryHandler serves /api/categorias.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Create adds a category.
//
// @Summary      Create a category
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/categorias [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.service.Create(c.Request().Context(), ports.CategoryInput{ID: req.ID, Name: req.Name})
	if err != nil {
		return err
	}
	return created(c, fmt.Sprintf("/api/categorias/%d", category.ID), toCategoryResponse(category))
}

// List returns every category.
//
// @Summary      List categories
// @Tags         categorias
// @Produce      json
// @Success      200  {array}  categoryResponse
// @Router       /api/categorias [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(categories, toCategoryResponse))
}

// Get returns one category.
//
// @Summary      Get a category
// @Tags         categorias
// @Produce      json
// @Param        id   path      int  true  "Category id"
// @Success      200  {object}  categoryResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/categorias/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	category, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Replace overwrites a category.
//
// @Summary      Replace a category
// @Tags         categorias
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int              true  "Category id"
// @Param        body  body  categoryRequest  true  "Category"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/categorias/{id} [put]
func (h *CategoryHandler) Replace(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.Replace(c.Request().Context(), id, ports.CategoryInput{ID: req.ID, Name: req.Name}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a category.
//
// @Summary      Delete a category
// @Tags         categorias
// @Security     BearerAuth
// @Param        id   path  int  true  "Category id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/categorias/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
