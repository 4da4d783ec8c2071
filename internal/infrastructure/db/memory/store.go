// Package memory implements the repository ports on process-local maps. It
// backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// Store holds every entity behind one lock so that cross-entity reads (a
// loan with its books and categories) see a consistent snapshot.
type Store struct {
	mu sync.RWMutex

	lastID     map[string]int64
	users      map[int64]domain.User
	categories map[int64]domain.Category
	books      map[int64]domain.Book
	loans      map[int64]domain.Loan
}

func New() *Store {
	return &Store{
		lastID:     make(map[string]int64),
		users:      make(map[int64]domain.User),
		categories: make(map[int64]domain.Category),
		books:      make(map[int64]domain.Book),
		loans:      make(map[int64]domain.Loan),
	}
}

func (s *Store) Users() *UserRepository         { return &UserRepository{s: s} }
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }
func (s *Store) Books() *BookRepository         { return &BookRepository{s: s} }
func (s *Store) Loans() *LoanRepository         { return &LoanRepository{s: s} }

// nextID must be called with mu held for writing.
func (s *Store) nextID(kind string) int64 {
	s.lastID[kind]++
	return s.lastID[kind]
}

// bookView returns a detached copy of a stored book with its category
// attached. Must be called with mu held.
func (s *Store) bookView(id int64) (*domain.Book, bool) {
	b, ok := s.books[id]
	if !ok {
		return nil, false
	}
	if c, ok := s.categories[b.CategoryID]; ok {
		b.Category = &c
	}
	return &b, true
}

// loanView returns a detached copy of a stored loan with items, books and
// categories loaded. Must be called with mu held.
func (s *Store) loanView(l domain.Loan) *domain.Loan {
	items := make([]domain.LoanItem, len(l.Items))
	for i, it := range l.Items {
		it.Book, _ = s.bookView(it.BookID)
		items[i] = it
	}
	l.Items = items
	return &l
}

func sortedKeys[V any](m map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(m))
}
