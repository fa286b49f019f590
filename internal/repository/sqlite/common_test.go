package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "travel-tracker/internal/errors"
)

func TestScopeError(t *testing.T) {
	t.Run("driver failure", func(t *testing.T) {
		driverErr := errors.New("disk I/O error")

		err := scopeError(ScopeLocal, "write tripHistory", driverErr)

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStorage))
		assert.Contains(t, err.Error(), "write tripHistory in local storage")
		assert.ErrorIs(t, err, driverErr)
	})

	t.Run("deadline", func(t *testing.T) {
		err := scopeError(ScopeSession, "clear", context.DeadlineExceeded)

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeTimeout))
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		scope, _ := appErr.GetContext("scope")
		assert.Equal(t, "session", scope)
	})
}

func newMockRepository(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestRepository_StorageFailures(t *testing.T) {
	ctx := context.Background()
	driverErr := errors.New("database is locked")

	t.Run("set item", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec("INSERT INTO local_storage").WillReturnError(driverErr)

		err := repo.SetItem(ctx, ScopeLocal, TripHistoryKey, "[]")

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStorage))
		assert.ErrorIs(t, err, driverErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get item", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT key, value, updated_at FROM session_storage").
			WithArgs("authType").
			WillReturnError(driverErr)

		_, err := repo.GetItem(ctx, ScopeSession, "authType")

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStorage))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keys", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT key FROM local_storage").
			WillReturnError(driverErr)

		_, err := repo.Keys(ctx, ScopeLocal)

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStorage))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clear scope", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec("DELETE FROM session_storage").WillReturnError(driverErr)

		err := repo.ClearScope(ctx, ScopeSession)

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStorage))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_MockedReads(t *testing.T) {
	ctx := context.Background()

	t.Run("missing item", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT key, value, updated_at FROM local_storage").
			WithArgs(TripHistoryKey).
			WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

		_, err := repo.GetItem(ctx, ScopeLocal, TripHistoryKey)

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keys", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT key FROM session_storage").
			WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("authType").AddRow("sessionId"))

		keys, err := repo.Keys(ctx, ScopeSession)

		require.NoError(t, err)
		assert.Equal(t, []string{"authType", "sessionId"}, keys)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT key FROM local_storage").
			WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("a").RowError(0, errors.New("bad page")))

		_, err := repo.Keys(ctx, ScopeLocal)

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStorage))
	})
}

func TestRepository_UnknownScope(t *testing.T) {
	repo, mock := newMockRepository(t)

	err := repo.SetItem(context.Background(), Scope("cookies"), "k", "v")

	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	// No statement reaches the driver.
	assert.NoError(t, mock.ExpectationsWereMet())
}
