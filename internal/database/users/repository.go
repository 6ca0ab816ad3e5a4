// Package users provides database operations for library members.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	id, err := repo.RegisterUser(ctx, "alice", "a@x.com", "555-0100")
//	n, err := repo.UpdateUser(ctx, id, users.UserUpdate{}.SetEmail("alice@x.com"))
package users

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

const table = "users"

var columns = []any{"id", "username", "email", "phone", "created_at"}

// ErrEmptyUpdate is returned when an update carries no fields.
var ErrEmptyUpdate = errors.New("no fields to update")

// UserUpdate is the set of user fields that may be changed.
// Only fields set through its setters are written.
type UserUpdate struct {
	username *string
	email    *string
	phone    *string
}

func (u UserUpdate) SetUsername(username string) UserUpdate {
	u.username = &username
	return u
}

func (u UserUpdate) SetEmail(email string) UserUpdate {
	u.email = &email
	return u
}

func (u UserUpdate) SetPhone(phone string) UserUpdate {
	u.phone = &phone
	return u
}

// IsEmpty reports whether no field has been set.
func (u UserUpdate) IsEmpty() bool {
	return u.username == nil && u.email == nil && u.phone == nil
}

func (u UserUpdate) record() goqu.Record {
	record := goqu.Record{}
	if u.username != nil {
		record["username"] = *u.username
	}
	if u.email != nil {
		record["email"] = *u.email
	}
	if u.phone != nil {
		record["phone"] = nullable(*u.phone)
	}
	return record
}

// Repository handles all user database operations.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new users repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// RegisterUser creates a user and returns its id. An empty phone is stored
// as NULL. A reused username or email fails with database.ErrDuplicateKey.
func (r *Repository) RegisterUser(ctx context.Context, username, email, phone string) (int64, error) {
	query, args, err := database.Build("register user", database.Dialect.
		Insert(table).
		Rows(goqu.Record{
			"username":   username,
			"email":      email,
			"phone":      nullable(phone),
			"created_at": r.db.Now(),
		}).
		Prepared(true))
	if err != nil {
		return 0, err
	}
	return r.db.Insert(ctx, query, args...)
}

// GetUser retrieves a user by ID. It returns nil without an error when no
// such user exists.
func (r *Repository) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	return r.getBy(ctx, "get user", goqu.Ex{"id": id})
}

// GetUserByUsername retrieves a user by username, nil when absent.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.getBy(ctx, "get user by username", goqu.Ex{"username": username})
}

func (r *Repository) getBy(ctx context.Context, op string, where goqu.Ex) (*entities.User, error) {
	query, args, err := database.Build(op, database.Dialect.
		From(table).
		Select(columns...).
		Where(where).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var user entities.User
	found, err := r.db.Get(ctx, &user, query, args...)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// UpdateUser writes the fields set in update and returns the number of rows
// changed, zero when the user does not exist.
func (r *Repository) UpdateUser(ctx context.Context, id int64, update UserUpdate) (int64, error) {
	if update.IsEmpty() {
		return 0, database.MalformedStatement("update user", ErrEmptyUpdate)
	}

	query, args, err := database.Build("update user", database.Dialect.
		Update(table).
		Set(update.record()).
		Where(goqu.C("id").Eq(id)).
		Prepared(true))
	if err != nil {
		return 0, err
	}
	return r.db.Update(ctx, query, args...)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
