package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/borrowings"
	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/services"
	"github.com/mrlokans/librarian/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.UserCatalog = (*users.Repository)(nil)
var _ services.BookCatalog = (*books.Repository)(nil)
var _ services.BorrowingLedger = (*borrowings.Repository)(nil)
var _ services.OverdueReport = (*borrowings.Repository)(nil)
var _ services.Pinger = (*database.Database)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ scheduler.OverdueLister = (*borrowings.Repository)(nil)
var _ scheduler.NoticeSink = (*tasks.Client)(nil)
var _ scheduler.NoticeSink = scheduler.LogSink{}
var _ tasks.UserFinder = (*users.Repository)(nil)
var _ http.OverdueSweeper = (*scheduler.OverdueSweepScheduler)(nil)
var _ http.TaskStatusChecker = (*tasks.Client)(nil)
