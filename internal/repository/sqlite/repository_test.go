package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "travel-tracker/internal/errors"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "trips.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSetAndGetItem(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	require.NoError(t, repo.SetItem(ctx, ScopeLocal, "greeting", "hello"))

	item, err := repo.GetItem(ctx, ScopeLocal, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", item.Value)
	assert.True(t, fixed.Equal(item.UpdatedAt))
}

func TestSetItem_Overwrites(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetItem(ctx, ScopeLocal, "k", "first"))
	require.NoError(t, repo.SetItem(ctx, ScopeLocal, "k", "second"))

	item, err := repo.GetItem(ctx, ScopeLocal, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", item.Value)

	keys, err := repo.Keys(ctx, ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}

func TestGetItem_Missing(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetItem(context.Background(), ScopeSession, "username")

	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestScopesAreIndependent(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetItem(ctx, ScopeLocal, TripHistoryKey, "[]"))
	require.NoError(t, repo.SetItem(ctx, ScopeSession, "authType", "user"))
	require.NoError(t, repo.SetItem(ctx, ScopeSession, "username", "Kerala User"))

	require.NoError(t, repo.ClearScope(ctx, ScopeSession))

	sessionKeys, err := repo.Keys(ctx, ScopeSession)
	require.NoError(t, err)
	assert.Empty(t, sessionKeys)

	localKeys, err := repo.Keys(ctx, ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, []string{TripHistoryKey}, localKeys)
}

func TestRemoveItem(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetItem(ctx, ScopeSession, "authType", "admin"))
	require.NoError(t, repo.RemoveItem(ctx, ScopeSession, "authType"))
	// Removing twice is fine.
	require.NoError(t, repo.RemoveItem(ctx, ScopeSession, "authType"))

	_, err := repo.GetItem(ctx, ScopeSession, "authType")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.db")
	ctx := context.Background()

	repo, err := New(path)
	require.NoError(t, err)
	require.NoError(t, repo.SetItem(ctx, ScopeLocal, "k", "v"))
	require.NoError(t, repo.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	item, err := reopened.GetItem(ctx, ScopeLocal, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", item.Value)
}

func TestInMemoryRepository(t *testing.T) {
	repo, err := New(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.SetItem(ctx, ScopeLocal, "k", "v"))
	item, err := repo.GetItem(ctx, ScopeLocal, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", item.Value)
}

func TestTimeouts(t *testing.T) {
	repo := setupTestDB(t)
	repo.SetTimeouts(time.Minute, time.Minute)

	ctx := context.Background()
	require.NoError(t, repo.SetItem(ctx, ScopeSession, "k", "v"))
	keys, err := repo.Keys(ctx, ScopeSession)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, repo.SetItem(cancelled, ScopeSession, "k", "w"))

	item, err := repo.GetItem(ctx, ScopeSession, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", item.Value)
}
