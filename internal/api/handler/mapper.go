package handler

import (
	"github.com/a2tp3/library-api/internal/core/domain"
	"github.com/a2tp3/library-api/internal/core/ports"
)

// --- Request → Service input ---

func toUserInput(req userRequest) ports.UserInput {
	return ports.UserInput{ID: req.ID, Name: req.Name, Login: req.Login, Password: req.Password}
}

func toBookInput(req bookRequest) ports.BookInput {
	return ports.BookInput{
		ID:              req.ID,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		CategoryID:      req.CategoryID,
		Price:           req.Price,
		Deleted:         req.Deleted,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Login: u.Login}
}

func toCategoryResponse(c *domain.Category) *categoryResponse {
	if c == nil {
		return nil
	}
	return &categoryResponse{ID: c.ID, Name: c.Name}
}

func toBookResponse(b *domain.Book) *bookResponse {
	if b == nil {
		return nil
	}
	return &bookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		ISBN:            b.ISBN,
		PublicationYear: b.PublicationYear,
		CategoryID:      b.CategoryID,
		Category:        toCategoryResponse(b.Category),
		Price:           b.Price,
		Deleted:         b.Deleted,
	}
}

func toLoanResponse(l *domain.Loan) loanResponse {
	items := make([]loanItemResponse, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, loanItemResponse{
			ID:     it.ID,
			LoanID: it.LoanID,
			BookID: it.BookID,
			Book:   toBookResponse(it.Book),
		})
	}
	return loanResponse{
		ID:         l.ID,
		LoanDate:   l.LoanDate,
		DueDate:    l.DueDate,
		TotalPrice: l.TotalPrice,
		UserID:     l.UserID,
		Items:      items,
	}
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
