package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, e.g. "valor": 15.5.
	decimal.MarshalJSONWithoutQuotes = true
}

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// --- Users ---

type userRequest struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome"`
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"nome"`
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Login string `json:"login"`
}

// --- Categories ---

type categoryRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"nome" validate:"required"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// --- Books ---

type bookRequest struct {
	ID              int64           `json:"id"`
	Title           string          `json:"titulo"        validate:"required"`
	Author          string          `json:"autor"`
	Publisher       string          `json:"editora"`
	ISBN            string          `json:"isbn"`
	PublicationYear string          `json:"anoPublicacao"`
	CategoryID      int64           `json:"categoriaId"   validate:"required,gt=0"`
	Price           decimal.Decimal `json:"valor"         swaggertype:"number"`
	Deleted         bool            `json:"isDeleted"`
}

type bookResponse struct {
	ID              int64             `json:"id"`
	Title           string            `json:"titulo"`
	Author          string            `json:"autor"`
	Publisher       string            `json:"editora"`
	ISBN            string            `json:"isbn"`
	PublicationYear string            `json:"anoPublicacao"`
	CategoryID      int64             `json:"categoriaId"`
	Category        *categoryResponse `json:"categoria"`
	Price           decimal.Decimal   `json:"valor"         swaggertype:"number"`
	Deleted         bool              `json:"isDeleted"`
}

// --- Loans ---

type createLoanRequest struct {
	BookIDs []int64 `json:"livroIds" validate:"required,min=1,dive,gt=0"`
}

type loanItemResponse struct {
	ID     int64         `json:"id"`
	LoanID int64         `json:"emprestimoId"`
	BookID int64         `json:"livroId"`
	Book   *bookResponse `json:"livro"`
}

type loanResponse struct {
	ID         int64              `json:"id"`
	LoanDate   time.Time          `json:"dataEmprestimo"`
	DueDate    time.Time          `json:"dataDevolucao"`
	TotalPrice decimal.Decimal    `json:"valorTotal"     swaggertype:"number"`
	UserID     int64              `json:"usuarioId"`
	Items      []loanItemResponse `json:"emprestimoLivros"`
}
