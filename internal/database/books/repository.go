// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	id, err := repo.AddBook(ctx, "Dune", "Frank Herbert", "9780441172719")
//	matches, err := repo.SearchBooks(ctx, "Herbert")
package books

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

const table = "books"

var columns = []any{"id", "title", "author", "isbn", "available", "created_at"}

// Repository handles all book database operations.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new books repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// AddBook adds an available book and returns its id.
// A reused ISBN fails with database.ErrDuplicateKey.
func (r *Repository) AddBook(ctx context.Context, title, author, isbn string) (int64, error) {
	query, args, err := database.Build("add book", database.Dialect.
		Insert(table).
		Rows(goqu.Record{
			"title":      title,
			"author":     author,
			"isbn":       isbn,
			"created_at": r.db.Now(),
		}).
		Prepared(true))
	if err != nil {
		return 0, err
	}
	return r.db.Insert(ctx, query, args...)
}

// GetBook retrieves a book by ID, nil when absent.
func (r *Repository) GetBook(ctx context.Context, id int64) (*entities.Book, error) {
	query, args, err := database.Build("get book", database.Dialect.
		From(table).
		Select(columns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var book entities.Book
	found, err := r.db.Get(ctx, &book, query, args...)
	if err != nil || !found {
		return nil, err
	}
	return &book, nil
}

// SearchBooks returns books whose title or author contains term.
// Matching is case-sensitive and treats term literally; an empty term
// matches every book.
func (r *Repository) SearchBooks(ctx context.Context, term string) ([]entities.Book, error) {
	return r.list(ctx, "search books", goqu.Or(
		goqu.L("instr(?, ?) > 0", goqu.C("title"), term),
		goqu.L("instr(?, ?) > 0", goqu.C("author"), term),
	))
}

// GetAllBooks returns every book in insertion order.
func (r *Repository) GetAllBooks(ctx context.Context) ([]entities.Book, error) {
	return r.list(ctx, "get all books")
}

func (r *Repository) list(ctx context.Context, op string, where ...goqu.Expression) ([]entities.Book, error) {
	query, args, err := database.Build(op, database.Dialect.
		From(table).
		Select(columns...).
		Where(where...).
		Order(goqu.C("id").Asc()).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	books := []entities.Book{}
	if err := r.db.Query(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}
