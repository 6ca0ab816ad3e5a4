// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - UserCatalog: Member registration and profiles (internal/services/interfaces.go)
//   - BookCatalog: Adding and finding books (internal/services/interfaces.go)
//   - BorrowingLedger: Loans and returns (internal/services/interfaces.go)
//   - Pinger: Store connectivity for health checks (internal/services/interfaces.go)
//
// The HTTP controllers and the text menu depend only on these, so both front
// ends run over the same repositories.
//
// ## Background Work Interfaces
//
//   - OverdueLister: Overdue open borrowings (internal/scheduler/overdue_sweep.go)
//   - NoticeSink: Receives overdue notices (internal/scheduler/overdue_sweep.go)
//   - UserFinder: Resolves a notice's recipient (internal/tasks/overdue_notice.go)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., reservations):
//
//  1. Create sub-package: internal/database/reservations/
//
//  2. Define repository over the shared store:
//
//     type Repository struct { db *database.Database }
//
//     func NewRepository(db *database.Database) *Repository
//
//  3. Build statements with database.Dialect and run them through
//     db.Query, db.Get, db.Insert or db.Update so failures come back as
//     *database.StorageError
//
//  4. Add the entity to Initialize and a compile-time check here:
//
//     var _ services.ReservationBook = (*reservations.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
