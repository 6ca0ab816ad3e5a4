package entrypoint

import (
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/borrowings"
	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/fines"
)

// Library bundles the catalogs opened over one store.
// Close releases the store; the catalogs must not be used afterwards.
type Library struct {
	DB     *database.Database
	Users  *users.Repository
	Books  *books.Repository
	Ledger *borrowings.Repository
	Fines  *fines.Calculator
}

func OpenLibrary(cfg *config.Config, opts ...database.Option) (*Library, error) {
	level := logger.Warn
	if cfg.Database.Debug {
		level = logger.Info
	}

	opts = append([]database.Option{
		database.WithLogLevel(level),
		database.WithForeignKeys(cfg.Database.ForeignKeys),
	}, opts...)

	db, err := database.NewDatabase(cfg.Database.Path, opts...)
	if err != nil {
		return nil, err
	}

	return &Library{
		DB:     db,
		Users:  users.NewRepository(db),
		Books:  books.NewRepository(db),
		Ledger: borrowings.NewRepository(db, borrowings.WithLoanPeriod(cfg.Loans.Period)),
		Fines:  fines.NewCalculator(cfg.Loans.FineDailyRate),
	}, nil
}

func (l *Library) Close() error {
	return l.DB.Close()
}
