package entities

import (
	"time"
)

// User is a registered library member. Username and email are unique.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" db:"username" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" db:"created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

type Book struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	Title     string    `gorm:"not null" db:"title" json:"title"`
	Author    string    `gorm:"not null" db:"author" json:"author"`
	ISBN      string    `gorm:"column:isbn;uniqueIndex;not null" db:"isbn" json:"isbn"`
	Available bool      `gorm:"default:true" db:"available" json:"available"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" db:"created_at" json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

// Borrowing is a single loan of a book to a user.
// It stays open until ReturnDate is set; a returned borrowing is never reopened.
type Borrowing struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	UserID     int64      `gorm:"not null;index" db:"user_id" json:"user_id"`
	BookID     int64      `gorm:"not null;index" db:"book_id" json:"book_id"`
	BorrowDate time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" db:"borrow_date" json:"borrow_date"`
	DueDate    *time.Time `db:"due_date" json:"due_date,omitempty"`
	ReturnDate *time.Time `gorm:"index" db:"return_date" json:"return_date,omitempty"`

	// Relationships, only used to declare the foreign keys
	User *User `gorm:"foreignKey:UserID" db:"-" json:"-"`
	Book *Book `gorm:"foreignKey:BookID" db:"-" json:"-"`
}

func (Borrowing) TableName() string {
	return "borrowings"
}

// IsOpen reports whether the book has not been returned yet.
func (b Borrowing) IsOpen() bool {
	return b.ReturnDate == nil
}

// IsOverdue reports whether an open borrowing is past its due date.
func (b Borrowing) IsOverdue(asOf time.Time) bool {
	return b.IsOpen() && b.DueDate != nil && b.DueDate.Before(asOf)
}
