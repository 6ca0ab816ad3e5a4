package http

import (
	"time"

	"github.com/mrlokans/librarian/internal/fines"
	"github.com/mrlokans/librarian/internal/services"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Users   services.UserCatalog
	Books   services.BookCatalog
	Ledger  services.BorrowingLedger
	Overdue services.OverdueReport
	Fines   *fines.Calculator

	// Optional; the matching endpoints answer 503 when nil
	Sweeper    OverdueSweeper
	TaskStatus TaskStatusChecker

	// Store connectivity for the health endpoint; nil reports "not configured"
	Database services.Pinger

	// Clock used to decide what is overdue; should match the store's
	Now func() time.Time

	Version string
}
