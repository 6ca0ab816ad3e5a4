package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/librarian/internal/entities"
)

// UserFinder resolves the member an overdue notice is addressed to.
type UserFinder interface {
	GetUser(ctx context.Context, id int64) (*entities.User, error)
}

// OverdueNoticeTask tells a member that a borrowed book is past due.
type OverdueNoticeTask struct {
	BorrowingID int64     `json:"borrowing_id"`
	UserID      int64     `json:"user_id"`
	BookID      int64     `json:"book_id"`
	DueDate     time.Time `json:"due_date"`
	DaysOverdue int       `json:"days_overdue"`
	Fine        string    `json:"fine"`
}

// Config returns the queue configuration for overdue notices.
func (t OverdueNoticeTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "overdue_notice",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OverdueNoticeProcessor creates a processor function for OverdueNoticeTask.
// Notices for members that no longer resolve are dropped without a retry.
func OverdueNoticeProcessor(users UserFinder) backlite.QueueProcessor[OverdueNoticeTask] {
	return func(ctx context.Context, task OverdueNoticeTask) error {
		if users == nil {
			return fmt.Errorf("user finder not configured")
		}

		user, err := users.GetUser(ctx, task.UserID)
		if err != nil {
			return fmt.Errorf("overdue notice for borrowing %d: %w", task.BorrowingID, err)
		}
		if user == nil {
			log.Printf("[TASK] Overdue notice for borrowing %d skipped: user %d not found",
				task.BorrowingID, task.UserID)
			return nil
		}

		log.Printf("[TASK] Overdue notice to %s <%s>: book %d due %s is %d days overdue, fine %s",
			user.Username, user.Email, task.BookID, task.DueDate.Format("2006-01-02"), task.DaysOverdue, task.Fine)
		return nil
	}
}

// NewOverdueNoticeQueue creates a backlite queue for overdue notices.
func NewOverdueNoticeQueue(users UserFinder) backlite.Queue {
	return backlite.NewQueue(OverdueNoticeProcessor(users))
}
