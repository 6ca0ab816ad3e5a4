package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/fines"
	"github.com/mrlokans/librarian/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// OverdueLister lists open borrowings past their due date.
type OverdueLister interface {
	GetOverdueBorrowings(ctx context.Context, asOf time.Time) ([]entities.Borrowing, error)
}

// NoticeSink receives the notices produced by a sweep and returns the ids of
// any tasks it enqueued for them.
type NoticeSink interface {
	EnqueueOverdueNotices(ctx context.Context, notices []tasks.OverdueNoticeTask) ([]string, error)
}

// LogSink writes notices to the log. Used when the task queue is disabled.
type LogSink struct{}

func (LogSink) EnqueueOverdueNotices(_ context.Context, notices []tasks.OverdueNoticeTask) ([]string, error) {
	for _, n := range notices {
		log.Printf("Overdue sweep: user %d has book %d %d days overdue (borrowing %d), fine %s",
			n.UserID, n.BookID, n.DaysOverdue, n.BorrowingID, n.Fine)
	}
	return nil, nil
}

// SweepResult describes one sweep run. TaskIDs is empty when the sink does
// not queue tasks.
type SweepResult struct {
	Notices int
	TaskIDs []string
}

// OverdueSweepScheduler periodically turns overdue borrowings into notices.
type OverdueSweepScheduler struct {
	ledger   OverdueLister
	calc     *fines.Calculator
	sink     NoticeSink
	schedule string
	now      func() time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewOverdueSweepScheduler creates a new scheduler instance. now should be
// the same clock the store uses.
func NewOverdueSweepScheduler(ledger OverdueLister, calc *fines.Calculator, sink NoticeSink, schedule string, now func() time.Time) *OverdueSweepScheduler {
	return &OverdueSweepScheduler{
		ledger:   ledger,
		calc:     calc,
		sink:     sink,
		schedule: schedule,
		now:      now,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the sweep. It stops by itself when ctx is cancelled.
func (s *OverdueSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Overdue sweep scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running sweep to finish and stops the scheduler.
func (s *OverdueSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Overdue sweep scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *OverdueSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will occur
func (s *OverdueSweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow sweeps immediately and reports the notices sent.
func (s *OverdueSweepScheduler) RunNow(ctx context.Context) (SweepResult, error) {
	asOf := s.now()

	overdue, err := s.ledger.GetOverdueBorrowings(ctx, asOf)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list overdue borrowings: %w", err)
	}

	notices := make([]tasks.OverdueNoticeTask, 0, len(overdue))
	for _, b := range overdue {
		if b.DueDate == nil {
			continue
		}
		days := fines.DaysOverdue(*b.DueDate, asOf)
		if days == 0 {
			continue
		}
		fine, err := s.calc.Fine(days)
		if err != nil {
			return SweepResult{}, err
		}
		notices = append(notices, tasks.OverdueNoticeTask{
			BorrowingID: b.ID,
			UserID:      b.UserID,
			BookID:      b.BookID,
			DueDate:     *b.DueDate,
			DaysOverdue: days,
			Fine:        fine.StringFixed(2),
		})
	}

	ids, err := s.sink.EnqueueOverdueNotices(ctx, notices)
	if err != nil {
		return SweepResult{}, err
	}
	return SweepResult{Notices: len(notices), TaskIDs: ids}, nil
}

func (s *OverdueSweepScheduler) runSweep(ctx context.Context) {
	startTime := time.Now()
	result, err := s.RunNow(ctx)
	if err != nil {
		log.Printf("Overdue sweep: failed: %v", err)
		return
	}
	log.Printf("Overdue sweep: sent %d notices in %v", result.Notices, time.Since(startTime).Round(time.Millisecond))
}

// ValidateCronSchedule validates a cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}
