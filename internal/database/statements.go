package database

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

// Dialect builds statements for the store. Catalogs render every statement
// through it so values always travel as positional parameters.
var Dialect = goqu.Dialect("sqlite3")

// Statement is any goqu dataset that can render itself.
type Statement interface {
	ToSQL() (string, []interface{}, error)
}

// Build renders a prepared statement. Rendering failures are reported as
// ErrMalformedStatement.
func Build(op string, stmt Statement) (string, []any, error) {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return "", nil, MalformedStatement(op, err)
	}
	return query, args, nil
}
