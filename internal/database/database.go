package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/entities"
)

// Option configures a Database at open time.
type Option func(*options)

type options struct {
	logLevel    logger.LogLevel
	foreignKeys bool
	now         func() time.Time
}

// WithLogLevel sets the gorm logger level used for schema operations.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// WithForeignKeys toggles SQLite foreign key enforcement for the connection.
func WithForeignKeys(enabled bool) Option {
	return func(o *options) {
		o.foreignKeys = enabled
	}
}

// WithClock replaces the time source used for every stored timestamp.
// Readings are converted to UTC so stored timestamps compare correctly.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = func() time.Time { return now().UTC() }
		}
	}
}

// Database owns the single connection to the library store.
// Catalogs hold a non-owning reference and never close it.
type Database struct {
	gorm *gorm.DB
	db   *sqlx.DB
	now  func() time.Time

	mu     sync.RWMutex
	closed bool
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{
		logLevel:    logger.Warn,
		foreignKeys: true,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}

	gormDB, err := gorm.Open(sqlite.Open(dataSourceName(dbPath, o.foreignKeys)), &gorm.Config{
		Logger: logger.Default.LogMode(o.logLevel),
	})
	if err != nil {
		return nil, classify("open", fmt.Errorf("failed to connect to database: %w", err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, classify("open", err)
	}
	// One process-wide connection, SQLite serializes the rest.
	sqlDB.SetMaxOpenConns(1)

	database := &Database{
		gorm: gormDB,
		db:   sqlx.NewDb(sqlDB, "sqlite3"),
		now:  o.now,
	}

	if err := database.Initialize(context.Background()); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func dataSourceName(dbPath string, foreignKeys bool) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_foreign_keys=%t&_busy_timeout=5000", dbPath, sep, foreignKeys)
}

// Initialize creates the users, books and borrowings tables together with
// their unique indexes and foreign keys. Existing tables and rows are kept.
func (d *Database) Initialize(ctx context.Context) error {
	if _, err := d.conn("initialize"); err != nil {
		return err
	}

	err := d.gorm.WithContext(ctx).AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Borrowing{},
	)
	if err != nil {
		return classify("initialize", fmt.Errorf("failed to migrate database: %w", err))
	}
	return nil
}

// Query runs a read-only statement and scans every row into dest, which must
// be a pointer to a slice. A statement matching nothing leaves dest empty.
func (d *Database) Query(ctx context.Context, dest any, statement string, args ...any) error {
	db, err := d.conn("query")
	if err != nil {
		return err
	}
	if err := db.SelectContext(ctx, dest, statement, args...); err != nil {
		return classify("query", err)
	}
	return nil
}

// Get scans at most one row into dest. It reports false when nothing matched.
func (d *Database) Get(ctx context.Context, dest any, statement string, args ...any) (bool, error) {
	db, err := d.conn("get")
	if err != nil {
		return false, err
	}
	err = db.GetContext(ctx, dest, statement, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify("get", err)
	}
	return true, nil
}

// Insert executes a statement creating exactly one row and returns its id.
func (d *Database) Insert(ctx context.Context, statement string, args ...any) (int64, error) {
	db, err := d.conn("insert")
	if err != nil {
		return 0, err
	}
	result, err := db.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, classify("insert", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, classify("insert", err)
	}
	return id, nil
}

// Update executes a statement mutating existing rows and returns how many
// were changed. Zero affected rows is not an error.
func (d *Database) Update(ctx context.Context, statement string, args ...any) (int64, error) {
	db, err := d.conn("update")
	if err != nil {
		return 0, err
	}
	result, err := db.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, classify("update", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, classify("update", err)
	}
	return affected, nil
}

// Ping verifies the store is still reachable.
func (d *Database) Ping(ctx context.Context) error {
	db, err := d.conn("ping")
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return classify("ping", err)
	}
	return nil
}

// Now returns the current time from the configured clock.
func (d *Database) Now() time.Time {
	return d.now()
}

// Close releases the connection. Calling it more than once is a no-op.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.db.Close()
}

func (d *Database) conn(op string) (*sqlx.DB, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, &StorageError{Op: op, Kind: ErrConnectionLost, Err: errClosed}
	}
	return d.db, nil
}
