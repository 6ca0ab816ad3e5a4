// Package borrowings records book loans and returns.
//
// The ledger does not check availability or whether the user and book
// exist. Orphan ids are only rejected when the store enforces foreign keys.
package borrowings

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

const table = "borrowings"

var columns = []any{"id", "user_id", "book_id", "borrow_date", "due_date", "return_date"}

var open = goqu.C("return_date").IsNull()

type Option func(*Repository)

// WithLoanPeriod sets due dates to borrow time plus period.
// A zero period leaves new borrowings without a due date.
func WithLoanPeriod(period time.Duration) Option {
	return func(r *Repository) {
		r.loanPeriod = period
	}
}

// Repository handles all borrowing database operations.
type Repository struct {
	db         *database.Database
	loanPeriod time.Duration
}

// NewRepository creates a new borrowings repository.
func NewRepository(db *database.Database, opts ...Option) *Repository {
	r := &Repository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BorrowBook opens a borrowing for the pair and returns its id.
func (r *Repository) BorrowBook(ctx context.Context, userID, bookID int64) (int64, error) {
	now := r.db.Now()
	record := goqu.Record{
		"user_id":     userID,
		"book_id":     bookID,
		"borrow_date": now,
	}
	if r.loanPeriod > 0 {
		record["due_date"] = now.Add(r.loanPeriod)
	}

	query, args, err := database.Build("borrow book", database.Dialect.
		Insert(table).
		Rows(record).
		Prepared(true))
	if err != nil {
		return 0, err
	}
	return r.db.Insert(ctx, query, args...)
}

// ReturnBook closes every open borrowing of the book by the user and returns
// how many were closed.
func (r *Repository) ReturnBook(ctx context.Context, userID, bookID int64) (int64, error) {
	query, args, err := database.Build("return book", database.Dialect.
		Update(table).
		Set(goqu.Record{"return_date": r.db.Now()}).
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("book_id").Eq(bookID),
			open,
		).
		Prepared(true))
	if err != nil {
		return 0, err
	}
	return r.db.Update(ctx, query, args...)
}

// GetBorrowedBooks returns the open borrowings of a user.
func (r *Repository) GetBorrowedBooks(ctx context.Context, userID int64) ([]entities.Borrowing, error) {
	return r.list(ctx, "get borrowed books", goqu.C("user_id").Eq(userID), open)
}

// GetOverdueBorrowings returns open borrowings whose due date is before asOf.
// Due dates are stored in UTC, so asOf is compared in UTC as well.
func (r *Repository) GetOverdueBorrowings(ctx context.Context, asOf time.Time) ([]entities.Borrowing, error) {
	return r.list(ctx, "get overdue borrowings", open, goqu.C("due_date").Lt(asOf.UTC()))
}

func (r *Repository) list(ctx context.Context, op string, where ...goqu.Expression) ([]entities.Borrowing, error) {
	query, args, err := database.Build(op, database.Dialect.
		From(table).
		Select(columns...).
		Where(where...).
		Order(goqu.C("id").Asc()).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	borrowings := []entities.Borrowing{}
	if err := r.db.Query(ctx, &borrowings, query, args...); err != nil {
		return nil, err
	}
	return borrowings, nil
}
