package users

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/database"
)

var createdAt = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "users.db")

	db, err := database.NewDatabase(dbPath,
		database.WithLogLevel(logger.Silent),
		database.WithClock(func() time.Time { return createdAt }),
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, cleanup
}

func TestRepository_RegisterUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	id, err := repo.RegisterUser(ctx, "alice", "a@x.com", "555-0100")

	require.NoError(t, err)
	assert.Positive(t, id)

	user, err := repo.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "555-0100", *user.Phone)
	assert.True(t, createdAt.Equal(user.CreatedAt))
}

func TestRepository_RegisterUser_EmptyPhoneIsNull(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	id, err := repo.RegisterUser(ctx, "bob", "b@x.com", "")
	require.NoError(t, err)

	user, err := repo.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, user.Phone)
}

func TestRepository_RegisterUser_Duplicates(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, err := repo.RegisterUser(ctx, "alice", "a@x.com", "")
	require.NoError(t, err)

	t.Run("same email", func(t *testing.T) {
		_, err := repo.RegisterUser(ctx, "alice2", "a@x.com", "")
		assert.ErrorIs(t, err, database.ErrDuplicateKey)
	})

	t.Run("same username", func(t *testing.T) {
		_, err := repo.RegisterUser(ctx, "alice", "other@x.com", "")
		assert.ErrorIs(t, err, database.ErrDuplicateKey)
	})

	t.Run("fresh pair succeeds", func(t *testing.T) {
		id, err := repo.RegisterUser(ctx, "carol", "c@x.com", "")
		require.NoError(t, err)
		assert.Positive(t, id)
	})
}

func TestRepository_GetUser_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.GetUser(context.Background(), 999)

	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestRepository_GetUserByUsername(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	id, err := repo.RegisterUser(ctx, "alice", "a@x.com", "")
	require.NoError(t, err)

	user, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)

	missing, err := repo.GetUserByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only the fields that were set", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		id, err := repo.RegisterUser(ctx, "alice", "a@x.com", "555-0100")
		require.NoError(t, err)

		n, err := repo.UpdateUser(ctx, id, UserUpdate{}.SetEmail("alice@x.com"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		user, err := repo.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@x.com", user.Email)
		assert.Equal(t, "555-0100", *user.Phone)
	})

	t.Run("updates several fields at once", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		id, err := repo.RegisterUser(ctx, "alice", "a@x.com", "555-0100")
		require.NoError(t, err)

		update := UserUpdate{}.SetUsername("alicia").SetPhone("")
		n, err := repo.UpdateUser(ctx, id, update)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		user, err := repo.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "alicia", user.Username)
		assert.Nil(t, user.Phone)
	})

	t.Run("unknown user updates nothing", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		n, err := repo.UpdateUser(ctx, 999, UserUpdate{}.SetPhone("1"))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("empty update is malformed", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		_, err := repo.UpdateUser(ctx, 1, UserUpdate{})
		assert.ErrorIs(t, err, database.ErrMalformedStatement)
		assert.ErrorIs(t, err, ErrEmptyUpdate)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		_, err := repo.RegisterUser(ctx, "alice", "a@x.com", "")
		require.NoError(t, err)
		bob, err := repo.RegisterUser(ctx, "bob", "b@x.com", "")
		require.NoError(t, err)

		_, err = repo.UpdateUser(ctx, bob, UserUpdate{}.SetEmail("a@x.com"))
		assert.ErrorIs(t, err, database.ErrDuplicateKey)
	})
}

func TestUserUpdate_IsEmpty(t *testing.T) {
	assert.True(t, UserUpdate{}.IsEmpty())
	assert.False(t, UserUpdate{}.SetPhone("").IsEmpty())
}
