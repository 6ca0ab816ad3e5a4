package services

import (
	"context"
	"time"

	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/entities"
)

// UserCatalog registers members and maintains their profiles.
type UserCatalog interface {
	RegisterUser(ctx context.Context, username, email, phone string) (int64, error)
	GetUser(ctx context.Context, id int64) (*entities.User, error)
	UpdateUser(ctx context.Context, id int64, update users.UserUpdate) (int64, error)
}

// BookCatalog adds and finds books.
type BookCatalog interface {
	AddBook(ctx context.Context, title, author, isbn string) (int64, error)
	GetBook(ctx context.Context, id int64) (*entities.Book, error)
	SearchBooks(ctx context.Context, term string) ([]entities.Book, error)
	GetAllBooks(ctx context.Context) ([]entities.Book, error)
}

// BorrowingLedger records loans and returns.
type BorrowingLedger interface {
	BorrowBook(ctx context.Context, userID, bookID int64) (int64, error)
	ReturnBook(ctx context.Context, userID, bookID int64) (int64, error)
	GetBorrowedBooks(ctx context.Context, userID int64) ([]entities.Borrowing, error)
}

// OverdueReport lists open borrowings past their due date.
type OverdueReport interface {
	GetOverdueBorrowings(ctx context.Context, asOf time.Time) ([]entities.Borrowing, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
