package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/a2tp3/library-api/internal/core/domain"
)

const (
	collectionLoans = "loans"
	sequenceItems   = "loan_items"
)

// A loan is stored as one document with its items embedded, so inserting it
// is a single atomic write.
type loanDoc struct {
	ID         int64                `bson:"_id"`
	UserID     int64                `bson:"user_id"`
	LoanDate   time.Time            `bson:"loan_date"`
	DueDate    time.Time            `bson:"due_date"`
	TotalPrice primitive.Decimal128 `bson:"total_price"`
	Items      []loanItemDoc        `bson:"items"`
}

type loanItemDoc struct {
	ID     int64 `bson:"id"`
	BookID int64 `bson:"book_id"`
}

type LoanRepository struct {
	db  *mongo.Database
	col *mongo.Collection
	seq sequences
}

func NewLoanRepository(db *mongo.Database) *LoanRepository {
	return &LoanRepository{db: db, col: db.Collection(collectionLoans), seq: newSequences(db)}
}

func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := toDecimal128(loan.TotalPrice)
	if err != nil {
		return nil, err
	}
	loanID, err := r.seq.next(ctx, collectionLoans)
	if err != nil {
		return nil, err
	}
	firstItem, err := r.seq.reserve(ctx, sequenceItems, len(loan.Items))
	if err != nil {
		return nil, err
	}

	doc := loanDoc{
		ID:         loanID,
		UserID:     loan.UserID,
		LoanDate:   loan.LoanDate,
		DueDate:    loan.DueDate,
		TotalPrice: total,
		Items:      make([]loanItemDoc, len(loan.Items)),
	}
	for i := range loan.Items {
		doc.Items[i] = loanItemDoc{ID: firstItem + int64(i), BookID: loan.Items[i].BookID}
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert loan: %w", err)
	}

	loan.ID = loanID
	for i := range loan.Items {
		loan.Items[i].ID = doc.Items[i].ID
		loan.Items[i].LoanID = loanID
	}
	return loan, nil
}

func (r *LoanRepository) FindByID(ctx context.Context, id, userID int64) (*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc loanDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("find loan: %w", err)
	}
	loans, err := r.hydrate(ctx, []loanDoc{doc})
	if err != nil {
		return nil, err
	}
	return loans[0], nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, sortByID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	var docs []loanDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode loans: %w", err)
	}
	return r.hydrate(ctx, docs)
}

func (r *LoanRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

// EnsureIndexes creates an index on the owning user.
func (r *LoanRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}})
	return err
}

// hydrate converts loan documents and attaches every referenced book, loaded
// in one batch.
func (r *LoanRepository) hydrate(ctx context.Context, docs []loanDoc) ([]*domain.Loan, error) {
	var bookIDs []int64
	for _, d := range docs {
		for _, it := range d.Items {
			bookIDs = append(bookIDs, it.BookID)
		}
	}

	booksByID := make(map[int64]*domain.Book)
	if len(bookIDs) > 0 {
		books, err := loadBooks(ctx, r.db, bson.M{"_id": bson.M{"$in": bookIDs}})
		if err != nil {
			return nil, err
		}
		for _, b := range books {
			booksByID[b.ID] = b
		}
	}

	loans := make([]*domain.Loan, 0, len(docs))
	for _, d := range docs {
		total, err := fromDecimal128(d.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("loan %d total: %w", d.ID, err)
		}
		loan := &domain.Loan{
			ID:         d.ID,
			UserID:     d.UserID,
			LoanDate:   d.LoanDate.UTC(),
			DueDate:    d.DueDate.UTC(),
			TotalPrice: total,
			Items:      make([]domain.LoanItem, 0, len(d.Items)),
		}
		for _, it := range d.Items {
			loan.Items = append(loan.Items, domain.LoanItem{
				ID:     it.ID,
				LoanID: d.ID,
				BookID: it.BookID,
				Book:   booksByID[it.BookID],
			})
		}
		loans = append(loans, loan)
	}
	return loans, nil
}
