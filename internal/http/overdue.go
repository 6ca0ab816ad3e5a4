package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/librarian/internal/fines"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/services"
)

// OverdueSweeper runs an overdue sweep on demand.
type OverdueSweeper interface {
	RunNow(ctx context.Context) (scheduler.SweepResult, error)
}

// TaskStatusChecker looks up enqueued notice tasks.
type TaskStatusChecker interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// OverdueBorrowing is an open borrowing past its due date with the fine owed so far.
type OverdueBorrowing struct {
	BorrowingID int64     `json:"borrowing_id"`
	UserID      int64     `json:"user_id"`
	BookID      int64     `json:"book_id"`
	DueDate     time.Time `json:"due_date"`
	DaysOverdue int       `json:"days_overdue"`
	Fine        string    `json:"fine"`
}

// OverdueController reports overdue loans and drives the notice sweep.
type OverdueController struct {
	report  services.OverdueReport
	calc    *fines.Calculator
	sweeper OverdueSweeper
	tasks   TaskStatusChecker
	now     func() time.Time
}

func NewOverdueController(report services.OverdueReport, calc *fines.Calculator, sweeper OverdueSweeper, tasks TaskStatusChecker, now func() time.Time) *OverdueController {
	if calc == nil {
		calc = fines.NewCalculator(fines.DefaultDailyRate)
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &OverdueController{
		report:  report,
		calc:    calc,
		sweeper: sweeper,
		tasks:   tasks,
		now:     now,
	}
}

// ListOverdue handles GET /api/borrowings/overdue
func (oc *OverdueController) ListOverdue(c *gin.Context) {
	if oc.report == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "overdue report is not configured"})
		return
	}

	asOf := oc.now()
	borrowings, err := oc.report.GetOverdueBorrowings(c.Request.Context(), asOf)
	if err != nil {
		respondStorageError(c, err, "list overdue borrowings")
		return
	}

	overdue := make([]OverdueBorrowing, 0, len(borrowings))
	for _, b := range borrowings {
		if b.DueDate == nil {
			continue
		}
		overdue = append(overdue, OverdueBorrowing{
			BorrowingID: b.ID,
			UserID:      b.UserID,
			BookID:      b.BookID,
			DueDate:     *b.DueDate,
			DaysOverdue: fines.DaysOverdue(*b.DueDate, asOf),
			Fine:        oc.calc.FineFor(*b.DueDate, asOf).StringFixed(2),
		})
	}

	c.IndentedJSON(http.StatusOK, gin.H{"overdue": overdue, "count": len(overdue), "as_of": asOf})
}

// RunSweep handles POST /api/overdue/sweep
func (oc *OverdueController) RunSweep(c *gin.Context) {
	if oc.sweeper == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "overdue sweep is not configured"})
		return
	}

	result, err := oc.sweeper.RunNow(c.Request.Context())
	if err != nil {
		respondStorageError(c, err, "overdue sweep")
		return
	}

	taskIDs := result.TaskIDs
	if taskIDs == nil {
		taskIDs = []string{}
	}
	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"notices":  result.Notices,
		"task_ids": taskIDs,
		"message":  "overdue notices enqueued",
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (oc *OverdueController) GetTaskStatus(c *gin.Context) {
	if oc.tasks == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue is disabled"})
		return
	}

	taskID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := oc.tasks.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
