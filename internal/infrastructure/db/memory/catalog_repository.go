package memory

import (
	"context"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// CategoryRepository implements ports.CategoryRepository.
type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *category
	c.ID = r.s.nextID("categories")
	r.s.categories[c.ID] = c
	return &c, nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Category, 0, len(r.s.categories))
	for _, id := range sortedKeys(r.s.categories) {
		c := r.s.categories[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r *CategoryRepository) Update(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	r.s.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.s.categories, id)
	return nil
}

// BookRepository implements ports.BookRepository.
type BookRepository struct {
	s *Store
}

func (r *BookRepository) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b := *book
	b.ID = r.s.nextID("books")
	b.Category = nil
	r.s.books[b.ID] = b
	return &b, nil
}

func (r *BookRepository) FindByID(_ context.Context, id int64) (*domain.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookView(id)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return b, nil
}

func (r *BookRepository) List(_ context.Context) ([]*domain.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Book, 0, len(r.s.books))
	for _, id := range sortedKeys(r.s.books) {
		b, _ := r.s.bookView(id)
		out = append(out, b)
	}
	return out, nil
}

func (r *BookRepository) Update(_ context.Context, book *domain.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[book.ID]; !ok {
		return domain.ErrBookNotFound
	}
	b := *book
	b.Category = nil
	r.s.books[b.ID] = b
	return nil
}

func (r *BookRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.s.books, id)
	return nil
}
