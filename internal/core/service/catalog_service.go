package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/a2tp3/library-api/internal/core/domain"
	"github.com/a2tp3/library-api/internal/core/ports"
)

// CategoryService implements category CRUD.
type CategoryService struct {
	repo ports.CategoryRepository
	log  zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

// Create stores a new category. Any client-supplied id is ignored.
func (s *CategoryService) Create(ctx context.Context, input ports.CategoryInput) (*domain.Category, error) {
	created, err := s.repo.Create(ctx, &domain.Category{Name: input.Name})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("category_id", created.ID).Msg("category created")
	return created, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Replace(ctx context.Context, id int64, input ports.CategoryInput) error {
	if input.ID != id {
		return domain.ErrIDMismatch
	}
	return s.repo.Update(ctx, &domain.Category{ID: id, Name: input.Name})
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BookService implements book CRUD. Writes require the referenced category
// to exist.
type BookService struct {
	books      ports.BookRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
}

func NewBookService(books ports.BookRepository, categories ports.CategoryRepository, log zerolog.Logger) *BookService {
	return &BookService{books: books, categories: categories, log: log}
}

// Create stores a new book and returns it with its category loaded.
func (s *BookService) Create(ctx context.Context, input ports.BookInput) (*domain.Book, error) {
	category, err := s.lookupCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	book := toBook(input)
	book.ID = 0
	created, err := s.books.Create(ctx, book)
	if err != nil {
		return nil, err
	}
	created.Category = category

	s.log.Info().Int64("book_id", created.ID).Int64("category_id", category.ID).Msg("book created")
	return created, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	return s.books.List(ctx)
}

func (s *BookService) Replace(ctx context.Context, id int64, input ports.BookInput) error {
	if input.ID != id {
		return domain.ErrIDMismatch
	}
	if _, err := s.lookupCategory(ctx, input.CategoryID); err != nil {
		return err
	}
	return s.books.Update(ctx, toBook(input))
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	return s.books.Delete(ctx, id)
}

// lookupCategory resolves a category referenced from a book payload. A
// missing category is a client error, not a missing resource.
func (s *BookService) lookupCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, domain.ErrUnknownCategory
		}
		return nil, err
	}
	return category, nil
}

func toBook(in ports.BookInput) *domain.Book {
	return &domain.Book{
		ID:              in.ID,
		Title:           in.Title,
		Author:          in.Author,
		Publisher:       in.Publisher,
		ISBN:            in.ISBN,
		PublicationYear: in.PublicationYear,
		CategoryID:      in.CategoryID,
		Price:           in.Price,
		Deleted:         in.Deleted,
	}
}
