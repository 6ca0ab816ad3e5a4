package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Error kinds. Match them with errors.Is against any error returned by the
// data access layer.
var (
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrConnectionLost      = errors.New("connection lost")
	ErrMalformedStatement  = errors.New("malformed statement")
	ErrConstraintViolation = errors.New("constraint violation")
)

var errClosed = errors.New("database is closed")

// StorageError describes a failed store operation.
type StorageError struct {
	Op   string
	Kind error // one of the Err* kinds, nil when the failure is unclassified
	Err  error
}

func (e *StorageError) Error() string {
	if e.Kind == nil {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// MalformedStatement reports a statement that could not be built.
func MalformedStatement(op string, err error) error {
	return &StorageError{Op: op, Kind: ErrMalformedStatement, Err: err}
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &StorageError{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
				return ErrDuplicateKey
			}
			return ErrConstraintViolation
		case sqlite3.ErrError:
			return ErrMalformedStatement
		case sqlite3.ErrCantOpen, sqlite3.ErrIoErr, sqlite3.ErrNotADB, sqlite3.ErrCorrupt:
			return ErrConnectionLost
		}
		return nil
	}

	switch {
	case errors.Is(err, sql.ErrConnDone), errors.Is(err, driver.ErrBadConn):
		return ErrConnectionLost
	case strings.Contains(err.Error(), "database is closed"):
		// database/sql does not export this one
		return ErrConnectionLost
	}
	return nil
}
