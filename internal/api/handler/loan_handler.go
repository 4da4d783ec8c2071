package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/a2tp3/library-api/internal/api/metrics"
	"github.com/a2tp3/library-api/internal/core/domain"
	"github.com/a2tp3/library-api/internal/core/ports"
)

// HeaderIdempotencyKey lets a client retry POST /api/emprestimos safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// Reasons recorded on library_loan_rejections_total.
const (
	rejectEmpty        = "empty"
	rejectInvalid      = "invalid"
	rejectBookNotFound = "book_not_found"
	rejectError        = "error"
)

// LoanHandler serves /api/emprestimos. Every route acts on the caller's own
// loans.
type LoanHandler struct {
	service ports.LoanService
}

func NewLoanHandler(service ports.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

// Create opens a loan for the caller.
//
// @Summary      Create a loan
// @Description  Resolves every book, totals their prices and sets the due date seven days ahead.
// @Description  Repeating a request with the same Idempotency-Key returns the original loan with 200.
// @Tags         emprestimos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Client key for safe retries"
// @Param        body             body      createLoanRequest  true   "Books to borrow"
// @Success      201              {object}  loanResponse
// @Success      200              {object}  loanResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /api/emprestimos [post]
func (h *LoanHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req createLoanRequest
	if err := bind(c, &req); err != nil {
		metrics.LoanRejectionsTotal.WithLabelValues(rejectInvalid).Inc()
		return err
	}
	if err := c.Validate(&req); err != nil {
		reason := rejectInvalid
		if len(req.BookIDs) == 0 {
			reason = rejectEmpty
		}
		metrics.LoanRejectionsTotal.WithLabelValues(reason).Inc()
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateLoanInput{
		UserID:         userID,
		BookIDs:        req.BookIDs,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyLoan):
			metrics.LoanRejectionsTotal.WithLabelValues(rejectEmpty).Inc()
		case errors.Is(err, domain.ErrBookNotFound):
			metrics.LoanRejectionsTotal.WithLabelValues(rejectBookNotFound).Inc()
		default:
			metrics.LoanRejectionsTotal.WithLabelValues(rejectError).Inc()
		}
		return err
	}

	metrics.LoansCreatedTotal.WithLabelValues(strconv.FormatBool(result.AlreadyExisted)).Inc()
	if result.AlreadyExisted {
		return c.JSON(http.StatusOK, toLoanResponse(result.Loan))
	}
	metrics.LoanBooks.Observe(float64(len(result.Loan.Items)))
	return created(c, fmt.Sprintf("/api/emprestimos/%d", result.Loan.ID), toLoanResponse(result.Loan))
}

// List returns the caller's loans.
//
// @Summary      List my loans
// @Tags         emprestimos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   loanResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/emprestimos [get]
func (h *LoanHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	loans, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(loans, toLoanResponse))
}

// Get returns one of the caller's loans.
//
// @Summary      Get a loan
// @Tags         emprestimos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Loan id"
// @Success      200  {object}  loanResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/emprestimos/{id} [get]
func (h *LoanHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	loan, err := h.service.Get(c.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// Replace is refused: loans cannot change once created.
//
// @Summary      Replace a loan (not allowed)
// @Tags         emprestimos
// @Security     BearerAuth
// @Param        id   path      int  true  "Loan id"
// @Failure      401  {object}  errorResponse
// @Failure      405  {object}  errorResponse
// @Router       /api/emprestimos/{id} [put]
func (h *LoanHandler) Replace(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}
	return domain.ErrLoanImmutable
}

// Delete cancels one of the caller's loans.
//
// @Summary      Cancel a loan
// @Tags         emprestimos
// @Security     BearerAuth
// @Param        id   path  int  true  "Loan id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/emprestimos/{id} [delete]
func (h *LoanHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
