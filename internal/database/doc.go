// Package database provides the data access layer for the library.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, schema, Query/Get/Insert/Update primitives
//	├── errors.go        # StorageError and its kinds
//	├── statements.go    # goqu dialect used to build statements
//	├── users/           # User registration and profile updates
//	├── books/           # Book catalog and search
//	└── borrowings/      # Loans, returns and open borrowings
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type holding a non-owning
// reference to the Database:
//
//	db, err := database.NewDatabase("./library.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	usersRepo := users.NewRepository(db)
//	booksRepo := books.NewRepository(db)
//	ledger := borrowings.NewRepository(db, borrowings.WithLoanPeriod(14*24*time.Hour))
//
//	userID, err := usersRepo.RegisterUser(ctx, "alice", "a@x.com", "")
//	bookID, err := booksRepo.AddBook(ctx, "Dune", "Herbert", "ISBN1")
//	_, err = ledger.BorrowBook(ctx, userID, bookID)
//
// # Errors
//
// Every failure surfaces as a *StorageError. Use errors.Is with
// ErrDuplicateKey, ErrConnectionLost, ErrMalformedStatement or
// ErrConstraintViolation to branch on the cause.
//
// # Time
//
// Repositories never call time.Now directly. Timestamps come from
// Database.Now, which tests replace through WithClock.
package database
