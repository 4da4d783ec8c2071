package domain

import "github.com/shopspring/decimal"

// Category groups books in the catalog.
type Category struct {
	ID   int64
	Name string
}

// Book is a catalog entry. CategoryID must reference an existing category
// whenever the book is written; Category is only populated on reads.
type Book struct {
	ID              int64
	Title           string
	Author          string
	Publisher       string
	ISBN            string
	PublicationYear string
	CategoryID      int64
	Category        *Category
	Price           decimal.Decimal
	Deleted         bool
}
