package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/a2tp3/library-api/internal/core/domain"
)

const (
	collectionCategories = "categories"
	collectionBooks      = "books"
)

var sortByID = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

type categoryDoc struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

func (d categoryDoc) toDomain() *domain.Category {
	return &domain.Category{ID: d.ID, Name: d.Name}
}

type CategoryRepository struct {
	col *mongo.Collection
	seq sequences
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection(collectionCategories), seq: newSequences(db)}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collectionCategories)
	if err != nil {
		return nil, err
	}
	doc := categoryDoc{ID: id, Name: category.Name}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc categoryDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs, err := findCategories(ctx, r.col, bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": category.ID}, categoryDoc{ID: category.ID, Name: category.Name})
	if err != nil {
		return fmt.Errorf("replace category: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func findCategories(ctx context.Context, col *mongo.Collection, filter bson.M) ([]categoryDoc, error) {
	cur, err := col.Find(ctx, filter, sortByID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return docs, nil
}

type bookDoc struct {
	ID              int64                `bson:"_id"`
	Title           string               `bson:"title"`
	Author          string               `bson:"author"`
	Publisher       string               `bson:"publisher"`
	ISBN            string               `bson:"isbn"`
	PublicationYear string               `bson:"publication_year"`
	CategoryID      int64                `bson:"category_id"`
	Price           primitive.Decimal128 `bson:"price"`
	Deleted         bool                 `bson:"deleted"`
}

func toBookDoc(b *domain.Book) (bookDoc, error) {
	price, err := toDecimal128(b.Price)
	if err != nil {
		return bookDoc{}, err
	}
	return bookDoc{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		ISBN:            b.ISBN,
		PublicationYear: b.PublicationYear,
		CategoryID:      b.CategoryID,
		Price:           price,
		Deleted:         b.Deleted,
	}, nil
}

func (d bookDoc) toDomain() (*domain.Book, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, fmt.Errorf("book %d price: %w", d.ID, err)
	}
	return &domain.Book{
		ID:              d.ID,
		Title:           d.Title,
		Author:          d.Author,
		Publisher:       d.Publisher,
		ISBN:            d.ISBN,
		PublicationYear: d.PublicationYear,
		CategoryID:      d.CategoryID,
		Price:           price,
		Deleted:         d.Deleted,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(v.String())
}

// BookRepository stores books; every read attaches the book's category.
type BookRepository struct {
	db  *mongo.Database
	col *mongo.Collection
	seq sequences
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{db: db, col: db.Collection(collectionBooks), seq: newSequences(db)}
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toBookDoc(book)
	if err != nil {
		return nil, err
	}
	if doc.ID, err = r.seq.next(ctx, collectionBooks); err != nil {
		return nil, err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return doc.toDomain()
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	books, err := loadBooks(ctx, r.db, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, domain.ErrBookNotFound
	}
	return books[0], nil
}

func (r *BookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return loadBooks(ctx, r.db, bson.M{})
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toBookDoc(book)
	if err != nil {
		return err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": book.ID}, doc)
	if err != nil {
		return fmt.Errorf("replace book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// EnsureIndexes creates an index on the category reference.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "category_id", Value: 1}}})
	return err
}

// loadBooks returns the books matching filter ordered by id, with categories
// fetched in one extra round trip.
func loadBooks(ctx context.Context, db *mongo.Database, filter bson.M) ([]*domain.Book, error) {
	cur, err := db.Collection(collectionBooks).Find(ctx, filter, sortByID)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	var docs []bookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	categoryIDs := make([]int64, 0, len(docs))
	for _, d := range docs {
		categoryIDs = append(categoryIDs, d.CategoryID)
	}
	cats, err := findCategories(ctx, db.Collection(collectionCategories), bson.M{"_id": bson.M{"$in": categoryIDs}})
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]categoryDoc, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	books := make([]*domain.Book, 0, len(docs))
	for _, d := range docs {
		b, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		if c, ok := byID[d.CategoryID]; ok {
			b.Category = c.toDomain()
		}
		books = append(books, b)
	}
	return books, nil
}
