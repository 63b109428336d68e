package interactions

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hameddjf/movie-api/internal/catalog"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

var movieRef = catalog.ContentRef{Kind: catalog.KindMovie, ID: 42}

func TestAddCreatesMembership(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO watchlist_items").
		WithArgs(int64(7), "movie", int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "added_at"}).AddRow(int64(1), time.Now()))

	item, created, err := repo.Add(tableWatchlist, 7, movieRef)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), item.ID)
	assert.Equal(t, movieRef, item.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDuplicateReturnsExisting(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO favorite_items").
		WithArgs(int64(7), "movie", int64(42)).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})
	mock.ExpectQuery("SELECT id, added_at FROM favorite_items").
		WithArgs(int64(7), "movie", int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "added_at"}).AddRow(int64(3), time.Now()))

	item, created, err := repo.Add(tableFavorites, 7, movieRef)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(3), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTouchOverwritesProgress(t *testing.T) {
	repo, mock := newMockRepo(t)
	later := time.Now()
	progress := 90

	mock.ExpectQuery("INSERT INTO recently_watched_items").
		WithArgs(int64(7), "movie", int64(42), int64(90)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "watched_at", "progress_seconds", "created"}).
			AddRow(int64(5), later, 90, false))

	item, created, err := repo.Touch(7, movieRef, &progress, true)
	require.NoError(t, err)
	assert.False(t, created)
	require.NotNil(t, item.ProgressSeconds)
	assert.Equal(t, 90, *item.ProgressSeconds)
	assert.WithinDuration(t, later, item.WatchedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveAbsentRowIsNotAnError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM watchlist_items").
		WithArgs(int64(99), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Remove(tableWatchlist, 7, 99)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveByContentReportsDeletion(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM favorite_items").
		WithArgs(int64(7), "movie", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.RemoveByContent(tableFavorites, 7, movieRef)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
