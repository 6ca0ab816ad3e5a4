package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/fines"
	"github.com/mrlokans/librarian/internal/services"
)

const dateLayout = "2006-01-02 15:04"

// Menu is the interactive text front end over the library catalogs.
// It reads one answer per line and returns when the input ends or the
// user exits.
type Menu struct {
	Users  services.UserCatalog
	Books  services.BookCatalog
	Ledger services.BorrowingLedger
	Fines  *fines.Calculator

	in  *bufio.Scanner
	out io.Writer
}

func NewMenu(users services.UserCatalog, books services.BookCatalog, ledger services.BorrowingLedger, calc *fines.Calculator, in io.Reader, out io.Writer) *Menu {
	if calc == nil {
		calc = fines.NewCalculator(fines.DefaultDailyRate)
	}
	return &Menu{
		Users:  users,
		Books:  books,
		Ledger: ledger,
		Fines:  calc,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

func (m *Menu) Run(ctx context.Context) error {
	line := strings.Repeat("=", 50)
	m.printf("%s\nWelcome to the Library Management System\n%s\n", line, line)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printf("\nMain Menu:\n")
		m.printf("1. User Management\n")
		m.printf("2. Book Management\n")
		m.printf("3. Borrowing Operations\n")
		m.printf("4. Calculate a Fine\n")
		m.printf("5. Exit\n")

		choice, err := m.prompt("\nSelect an option (1-5): ")
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case "1":
			err = m.userMenu(ctx)
		case "2":
			err = m.bookMenu(ctx)
		case "3":
			err = m.borrowingMenu(ctx)
		case "4":
			err = m.fineMenu()
		case "5":
			m.printf("\nThank you for using the Library Management System!\n")
			return nil
		default:
			m.printf("Invalid option. Please try again.\n")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

func (m *Menu) userMenu(ctx context.Context) error {
	m.printf("\n--- User Management ---\n")
	m.printf("1. Register New User\n")
	m.printf("2. View User Profile\n")
	m.printf("3. Update User Information\n")
	m.printf("4. Back to Main Menu\n")

	choice, err := m.prompt("\nSelect an option (1-4): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		username, err := m.prompt("Enter username: ")
		if err != nil {
			return err
		}
		email, err := m.prompt("Enter email: ")
		if err != nil {
			return err
		}
		phone, err := m.prompt("Enter phone number (optional): ")
		if err != nil {
			return err
		}
		id, err := m.Users.RegisterUser(ctx, username, email, phone)
		if err != nil {
			m.failed("register user", err)
			return nil
		}
		m.printf("User '%s' registered with ID %d.\n", username, id)

	case "2":
		id, ok, err := m.promptID("Enter user ID: ")
		if err != nil || !ok {
			return err
		}
		user, err := m.Users.GetUser(ctx, id)
		if err != nil {
			m.failed("get user", err)
			return nil
		}
		if user == nil {
			m.printf("User not found.\n")
			return nil
		}
		m.printf("%s\n", formatUser(user))

	case "3":
		id, ok, err := m.promptID("Enter user ID: ")
		if err != nil || !ok {
			return err
		}
		m.printf("Leave a field blank to keep its current value.\n")
		var update users.UserUpdate
		for _, field := range []struct {
			label string
			set   func(string) users.UserUpdate
		}{
			{"Enter new username: ", func(v string) users.UserUpdate { return update.SetUsername(v) }},
			{"Enter new email: ", func(v string) users.UserUpdate { return update.SetEmail(v) }},
			{"Enter new phone number: ", func(v string) users.UserUpdate { return update.SetPhone(v) }},
		} {
			value, err := m.prompt(field.label)
			if err != nil {
				return err
			}
			if value != "" {
				update = field.set(value)
			}
		}
		if update.IsEmpty() {
			m.printf("Nothing to update.\n")
			return nil
		}
		updated, err := m.Users.UpdateUser(ctx, id, update)
		if err != nil {
			m.failed("update user", err)
			return nil
		}
		if updated == 0 {
			m.printf("User not found.\n")
			return nil
		}
		m.printf("User information updated!\n")

	case "4":
	default:
		m.printf("Invalid option.\n")
	}
	return nil
}

func (m *Menu) bookMenu(ctx context.Context) error {
	m.printf("\n--- Book Management ---\n")
	m.printf("1. Add New Book\n")
	m.printf("2. Search Books\n")
	m.printf("3. View All Books\n")
	m.printf("4. Back to Main Menu\n")

	choice, err := m.prompt("\nSelect an option (1-4): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		title, err := m.prompt("Enter book title: ")
		if err != nil {
			return err
		}
		author, err := m.prompt("Enter author name: ")
		if err != nil {
			return err
		}
		isbn, err := m.prompt("Enter ISBN: ")
		if err != nil {
			return err
		}
		id, err := m.Books.AddBook(ctx, title, author, isbn)
		if err != nil {
			m.failed("add book", err)
			return nil
		}
		m.printf("Book '%s' added with ID %d.\n", title, id)

	case "2":
		term, err := m.prompt("Enter search term: ")
		if err != nil {
			return err
		}
		books, err := m.Books.SearchBooks(ctx, term)
		if err != nil {
			m.failed("search books", err)
			return nil
		}
		m.printBooks(books)

	case "3":
		books, err := m.Books.GetAllBooks(ctx)
		if err != nil {
			m.failed("list books", err)
			return nil
		}
		m.printf("\nTotal books: %d\n", len(books))
		m.printBooks(books)

	case "4":
	default:
		m.printf("Invalid option.\n")
	}
	return nil
}

func (m *Menu) borrowingMenu(ctx context.Context) error {
	m.printf("\n--- Borrowing Operations ---\n")
	m.printf("1. Borrow a Book\n")
	m.printf("2. Return a Book\n")
	m.printf("3. View Borrowed Books\n")
	m.printf("4. Back to Main Menu\n")

	choice, err := m.prompt("\nSelect an option (1-4): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1", "2":
		userID, ok, err := m.promptID("Enter user ID: ")
		if err != nil || !ok {
			return err
		}
		bookID, ok, err := m.promptID("Enter book ID: ")
		if err != nil || !ok {
			return err
		}
		if choice == "1" {
			if _, err := m.Ledger.BorrowBook(ctx, userID, bookID); err != nil {
				m.failed("borrow book", err)
				return nil
			}
			m.printf("Book borrowed successfully!\n")
			return nil
		}
		returned, err := m.Ledger.ReturnBook(ctx, userID, bookID)
		if err != nil {
			m.failed("return book", err)
			return nil
		}
		if returned == 0 {
			m.printf("That book is not on loan to this user.\n")
			return nil
		}
		m.printf("Book returned successfully!\n")

	case "3":
		userID, ok, err := m.promptID("Enter user ID: ")
		if err != nil || !ok {
			return err
		}
		borrowings, err := m.Ledger.GetBorrowedBooks(ctx, userID)
		if err != nil {
			m.failed("list borrowings", err)
			return nil
		}
		m.printf("\nBorrowed books for user %d:\n", userID)
		for i := range borrowings {
			m.printf("  %s\n", formatBorrowing(&borrowings[i]))
		}

	case "4":
	default:
		m.printf("Invalid option.\n")
	}
	return nil
}

func (m *Menu) fineMenu() error {
	raw, err := m.prompt("Enter days overdue: ")
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		m.printf("Invalid number of days.\n")
		return nil
	}
	fine, err := m.Fines.Fine(days)
	if err != nil {
		m.failed("calculate fine", err)
		return nil
	}
	m.printf("Fine for %d day(s) at %s per day: %s\n", days, m.Fines.DailyRate, fine.StringFixed(2))
	return nil
}

// prompt prints label and returns the next trimmed input line.
func (m *Menu) prompt(label string) (string, error) {
	m.printf("%s", label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// promptID reads a numeric id; ok is false when the answer was not a number.
func (m *Menu) promptID(label string) (int64, bool, error) {
	raw, err := m.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		m.printf("Invalid ID, please enter a whole number.\n")
		return 0, false, nil
	}
	return id, true, nil
}

func (m *Menu) failed(action string, err error) {
	m.printf("Could not %s: %v\n", action, err)
}

func (m *Menu) printBooks(books []entities.Book) {
	if len(books) == 0 {
		m.printf("No books found.\n")
		return
	}
	for i := range books {
		m.printf("  %s\n", formatBook(&books[i]))
	}
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func formatUser(u *entities.User) string {
	phone := "-"
	if u.Phone != nil {
		phone = *u.Phone
	}
	return fmt.Sprintf("#%d %s <%s> phone: %s, member since %s",
		u.ID, u.Username, u.Email, phone, u.CreatedAt.Format(dateLayout))
}

func formatBook(b *entities.Book) string {
	status := "available"
	if !b.Available {
		status = "unavailable"
	}
	return fmt.Sprintf("#%d %q by %s (ISBN %s, %s)", b.ID, b.Title, b.Author, b.ISBN, status)
}

func formatBorrowing(b *entities.Borrowing) string {
	s := fmt.Sprintf("#%d book %d borrowed %s", b.ID, b.BookID, b.BorrowDate.Format(dateLayout))
	if b.DueDate != nil {
		s += ", due " + b.DueDate.Format(dateLayout)
	}
	if b.ReturnDate != nil {
		s += ", returned " + b.ReturnDate.Format(dateLayout)
	}
	return s
}
