package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/a2tp3/library-api/internal/core/ports"
)

// BookHandler serves /api/livros. Reads include the book's category.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// Create adds a book to the catalog.
//
// @Summary      Create a book
// @Tags         livros
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book"
// @Success      201   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/livros [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	book, err := h.service.Create(c.Request().Context(), toBookInput(req))
	if err != nil {
		return err
	}
	return created(c, fmt.Sprintf("/api/livros/%d", book.ID), toBookResponse(book))
}

// List returns every book.
//
// @Summary      List books
// @Tags         livros
// @Produce      json
// @Success      200  {array}  bookResponse
// @Router       /api/livros [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(books, toBookResponse))
}

// Get returns one book.
//
// @Summary      Get a book
// @Tags         livros
// @Produce      json
// @Param        id   path      int  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/livros/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Replace overwrites a book.
//
// @Summary      Replace a book
// @Tags         livros
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int          true  "Book id"
// @Param        body  body  bookRequest  true  "Book"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/livros/{id} [put]
func (h *BookHandler) Replace(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.Replace(c.Request().Context(), id, toBookInput(req)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a book.
//
// @Summary      Delete a book
// @Tags         livros
// @Security     BearerAuth
// @Param        id   path  int  true  "Book id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/livros/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
