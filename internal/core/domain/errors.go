package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrLoanNotFound       = errors.New("loan not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("login and password are required")
	ErrLoginTaken         = errors.New("login already in use")
	ErrIDMismatch         = errors.New("id in path does not match id in body")
	ErrUnknownCategory    = errors.New("category does not exist")
	ErrEmptyLoan          = errors.New("a loan needs at least one book")
	ErrLoanImmutable      = errors.New("loans are immutable")
)

// BookNotFoundError reports the first book id a loan request referenced that
// does not exist. It matches ErrBookNotFound with errors.Is.
type BookNotFoundError struct {
	ID int64
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("book with id %d not found", e.ID)
}

func (e *BookNotFoundError) Is(target error) bool {
	return target == ErrBookNotFound
}
