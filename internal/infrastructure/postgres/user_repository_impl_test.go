package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/valueobject"
)

// newTestRepo connects to TEST_DATABASE_URL and applies the users migration.
// The test is skipped when no database is configured.
func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, PoolOptions{MaxConns: 8, MaxConnLife: time.Minute})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ddl, err := os.ReadFile("../../../db/migrations/000001_create_users.up.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(ddl))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM users WHERE clerk_id LIKE 'test_%'`)
	require.NoError(t, err)
	return NewUserRepository(pool)
}

func saveCmd(t *testing.T, clerkID, name, avatar string) valueobject.SaveUser {
	t.Helper()
	cmd, err := valueobject.NewSaveUser(clerkID, name, avatar)
	require.NoError(t, err)
	return cmd
}

func TestUserRepository_CreateFindUpdate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, saveCmd(t, "test_user_1", "first", "http://example.com/a.png"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := r.FindByClerkID(ctx, saveCmd(t, "test_user_1", "x", "").ClerkID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	updated, err := r.Update(ctx, saveCmd(t, "test_user_1", "second", ""))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "second", updated.Name)
	assert.Equal(t, "", updated.AvatarURL)
}

func TestUserRepository_NotFound(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.FindByClerkID(ctx, saveCmd(t, "test_missing", "x", "").ClerkID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = r.Update(ctx, saveCmd(t, "test_missing", "x", ""))
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUserRepository_DuplicateClerkID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	cmd := saveCmd(t, "test_dup", "first", "")

	_, err := r.Create(ctx, cmd)
	require.NoError(t, err)
	_, err = r.Create(ctx, cmd)

	assert.True(t, errors.Is(err, apperror.ErrDuplicate))
}

func TestUserRepository_ConcurrentCreatesOneWins(t *testing.T) {
	r := newTestRepo(t)
	cmd := saveCmd(t, "test_concurrent", "name", "")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(context.Background(), cmd)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, apperror.ErrDuplicate))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}
