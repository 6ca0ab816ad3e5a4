package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/borrowings"
	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/fines"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/tasks"
)

type recordingSink struct {
	notices []tasks.OverdueNoticeTask
}

func (s *recordingSink) EnqueueOverdueNotices(_ context.Context, notices []tasks.OverdueNoticeTask) ([]string, error) {
	s.notices = append(s.notices, notices...)
	return nil, nil
}

type stubStatus struct {
	status backlite.TaskStatus
	err    error
}

func (s stubStatus) Status(context.Context, string) (backlite.TaskStatus, error) {
	return s.status, s.err
}

type overdueFixture struct {
	router *gin.Engine
	sink   *recordingSink
	dbPath string
	now    time.Time
}

// setupOverdueRouter opens a store with one borrowing that is three days
// overdue as of the fixture clock.
func setupOverdueRouter(t *testing.T, status TaskStatusChecker) (*overdueFixture, func()) {
	t.Helper()
	sink := &recordingSink{}
	f, cleanup := setupOverdueRouterWith(t, filepath.Join(t.TempDir(), "overdue.db"), sink, status)
	f.sink = sink
	return f, cleanup
}

func setupOverdueRouterWith(t *testing.T, dbPath string, sink scheduler.NoticeSink, status TaskStatusChecker) (*overdueFixture, func()) {
	t.Helper()
	f := &overdueFixture{dbPath: dbPath, now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }

	db, err := database.NewDatabase(dbPath,
		database.WithLogLevel(logger.Silent),
		database.WithClock(clock),
	)
	require.NoError(t, err)

	ctx := context.Background()
	userRepo := users.NewRepository(db)
	bookRepo := books.NewRepository(db)
	ledger := borrowings.NewRepository(db, borrowings.WithLoanPeriod(7*24*time.Hour))
	calc := fines.NewCalculator(decimal.RequireFromString("0.5"))

	userID, err := userRepo.RegisterUser(ctx, "alice", "alice@example.com", "")
	require.NoError(t, err)
	bookID, err := bookRepo.AddBook(ctx, "Dune", "Frank Herbert", "111")
	require.NoError(t, err)
	_, err = ledger.BorrowBook(ctx, userID, bookID)
	require.NoError(t, err)
	f.now = f.now.AddDate(0, 0, 10)

	f.router = NewRouter(RouterConfig{
		Users:      userRepo,
		Books:      bookRepo,
		Ledger:     ledger,
		Fines:      calc,
		Sweeper:    scheduler.NewOverdueSweepScheduler(ledger, calc, sink, "0 8 * * *", clock),
		TaskStatus: status,
		Database:   db,
		Now:        clock,
	})
	return f, func() { db.Close() }
}

func TestOverdueController_ListOverdue(t *testing.T) {
	f, cleanup := setupOverdueRouter(t, nil)
	defer cleanup()

	w := doJSON(t, f.router, "GET", "/api/borrowings/overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Overdue []OverdueBorrowing `json:"overdue"`
		Count   int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 3, resp.Overdue[0].DaysOverdue)
	assert.Equal(t, "1.50", resp.Overdue[0].Fine)
}

func TestOverdueController_RunSweep(t *testing.T) {
	f, cleanup := setupOverdueRouter(t, nil)
	defer cleanup()

	w := doJSON(t, f.router, "POST", "/api/overdue/sweep", nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"notices":1`)
	assert.Contains(t, w.Body.String(), `"task_ids":[]`)
	require.Len(t, f.sink.notices, 1)
	assert.Equal(t, "1.50", f.sink.notices[0].Fine)
}

func TestOverdueController_RunSweep_TaskIDsResolve(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "overdue.db")
	client, err := tasks.NewClient(dbPath, tasks.DefaultConfig())
	require.NoError(t, err)
	defer client.Close()
	client.Register(tasks.NewOverdueNoticeQueue(nil))

	f, cleanup := setupOverdueRouterWith(t, dbPath, client, client)
	defer cleanup()

	w := doJSON(t, f.router, "POST", "/api/overdue/sweep", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var sweep struct {
		Notices int      `json:"notices"`
		TaskIDs []string `json:"task_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sweep))
	assert.Equal(t, 1, sweep.Notices)
	require.Len(t, sweep.TaskIDs, 1)

	w = doJSON(t, f.router, "GET", "/api/tasks/"+sweep.TaskIDs[0], nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, sweep.TaskIDs[0], status.ID)
	assert.Equal(t, "pending", status.Status)
}

func TestOverdueController_NotConfigured(t *testing.T) {
	router := gin.New()
	controller := NewOverdueController(nil, nil, nil, nil, nil)
	router.GET("/api/borrowings/overdue", controller.ListOverdue)
	router.POST("/api/overdue/sweep", controller.RunSweep)
	router.GET("/api/tasks/:id", controller.GetTaskStatus)

	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, router, "GET", "/api/borrowings/overdue", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, router, "POST", "/api/overdue/sweep", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, router, "GET", "/api/tasks/abc", nil).Code)
}

func TestOverdueController_GetTaskStatus(t *testing.T) {
	t.Run("reports the task status", func(t *testing.T) {
		f, cleanup := setupOverdueRouter(t, stubStatus{status: backlite.TaskStatusSuccess})
		defer cleanup()

		w := doJSON(t, f.router, "GET", "/api/tasks/abc", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id": "abc", "status": "success"}`, w.Body.String())
	})

	t.Run("lookup failure", func(t *testing.T) {
		f, cleanup := setupOverdueRouter(t, stubStatus{err: errors.New("boom")})
		defer cleanup()

		w := doJSON(t, f.router, "GET", "/api/tasks/abc", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTaskStatusToString(t *testing.T) {
	assert.Equal(t, "pending", taskStatusToString(backlite.TaskStatusPending))
	assert.Equal(t, "running", taskStatusToString(backlite.TaskStatusRunning))
	assert.Equal(t, "failure", taskStatusToString(backlite.TaskStatusFailure))
	assert.Equal(t, "not_found", taskStatusToString(backlite.TaskStatusNotFound))
}
