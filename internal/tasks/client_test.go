package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/entities"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "library.db")

	client, err := NewClient(dbPath, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "library-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	client, err := NewClient(dbPath, DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestClientStop_NotStarted(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "library.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.Stop(context.Background()))
}

// signallingFinder reports every lookup on a channel.
type signallingFinder struct {
	looked chan int64
}

func (f *signallingFinder) GetUser(_ context.Context, id int64) (*entities.User, error) {
	f.looked <- id
	return &entities.User{ID: id, Username: "alice", Email: "a@x.com"}, nil
}

func TestOverdueNoticeEnqueue(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	client, err := NewClient(dbPath, DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	finder := &signallingFinder{looked: make(chan int64, 1)}
	client.Register(NewOverdueNoticeQueue(finder))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(OverdueNoticeTask{BorrowingID: 1, UserID: 42, BookID: 3, DaysOverdue: 2, Fine: "1"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case userID := <-finder.looked:
		assert.Equal(t, int64(42), userID)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestEnqueueOverdueNotices_ReturnsTaskIDs(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "library.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()
	client.Register(NewOverdueNoticeQueue(nil))

	ctx := context.Background()
	ids, err := client.EnqueueOverdueNotices(ctx, []OverdueNoticeTask{
		{BorrowingID: 1, UserID: 42, BookID: 3, DaysOverdue: 2, Fine: "1.00"},
		{BorrowingID: 2, UserID: 43, BookID: 4, DaysOverdue: 5, Fine: "2.50"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	for _, id := range ids {
		status, err := client.Status(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, backlite.TaskStatusPending, status)
	}

	ids, err = client.EnqueueOverdueNotices(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

func TestConfigWithDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), Config{}.WithDefaults())

	cfg := Config{Workers: 4, ReleaseAfter: -time.Second}.WithDefaults()
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

func TestTasksDatabasePath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "library-tasks.db"), TasksDatabasePath(filepath.Join("data", "library.db")))
	assert.Equal(t, "library-tasks", TasksDatabasePath("library"))
}
