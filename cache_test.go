package rowset_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rowset"
)

// memCache is a minimal in-memory Cache for tests.
type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	return c.entries[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, prefix string) error {
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memCache) Clear(_ context.Context) error {
	c.entries = make(map[string][]byte)
	return nil
}

func TestLoadUsesCache(t *testing.T) {
	t.Parallel()
	drv, mock := newMockDriver(t)
	ctx := context.Background()
	cache := newMemCache()
	args := rowset.LoadArgs{Where: []rowset.Cond{{Column: "id", Value: "1"}}}

	mock.ExpectPrepare("SELECT * FROM test WHERE test.id = 1").ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(1, "News"))

	e, err := rowset.Load(ctx, drv, testDesc, args, rowset.WithCache(cache, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, e.StoredRowCount())

	// The second load is served from the cache; no further SQL executes.
	e2, err := rowset.Load(ctx, drv, testDesc, args, rowset.WithCache(cache, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, e2.StoredRowCount())
	assert.Equal(t, e.QueryRowCount(), e2.QueryRowCount())
	title, err := e2.Get(0, "title")
	require.NoError(t, err)
	assert.Equal(t, "News", title)
	persisted, err := e2.Persisted(0)
	require.NoError(t, err)
	assert.True(t, persisted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheKeyedByWindow(t *testing.T) {
	t.Parallel()
	drv, mock := newMockDriver(t)
	ctx := context.Background()
	cache := newMemCache()
	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "title"}).
			AddRow(1, "First").AddRow(2, "Second").AddRow(3, "Third")
	}

	mock.ExpectPrepare("SELECT * FROM test").ExpectQuery().WillReturnRows(rows())
	e, err := rowset.Load(ctx, drv, testDesc, rowset.LoadArgs{}, rowset.WithCache(cache, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, e.StoredRowCount())

	// A windowed load of the same statement is a distinct cache entry, so
	// the query runs again and only the window's row is stored.
	mock.ExpectPrepare("SELECT * FROM test").ExpectQuery().WillReturnRows(rows())
	win, err := rowset.Load(ctx, drv, testDesc,
		rowset.LoadArgs{Index: 1, Count: 1}, rowset.WithCache(cache, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, win.StoredRowCount())
	assert.Equal(t, 3, win.QueryRowCount())
	id, err := win.Get(0, "id")
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	// Each entry replays for its own window only.
	full, err := rowset.Load(ctx, drv, testDesc, rowset.LoadArgs{}, rowset.WithCache(cache, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, full.StoredRowCount())
	win2, err := rowset.Load(ctx, drv, testDesc,
		rowset.LoadArgs{Index: 1, Count: 1}, rowset.WithCache(cache, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, win2.StoredRowCount())
	id, err = win2.Get(0, "id")
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountUsesCache(t *testing.T) {
	t.Parallel()
	drv, mock := newMockDriver(t)
	ctx := context.Background()
	cache := newMemCache()

	mock.ExpectPrepare("SELECT COUNT(*) AS count FROM test").ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := rowset.Count(ctx, drv, testDesc, nil, rowset.WithCache(cache, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = rowset.Count(ctx, drv, testDesc, nil, rowset.WithCache(cache, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitInvalidatesCache(t *testing.T) {
	t.Parallel()
	drv, mock := newMockDriver(t)
	ctx := context.Background()
	cache := newMemCache()
	args := rowset.LoadArgs{Where: []rowset.Cond{{Column: "id", Value: "1"}}}

	mock.ExpectPrepare("SELECT * FROM test WHERE test.id = 1").ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(1, "News"))

	e, err := rowset.Load(ctx, drv, testDesc, args, rowset.WithCache(cache, 0))
	require.NoError(t, err)

	require.NoError(t, e.Set(0, map[string]string{"title": "Updated"}))
	mock.ExpectPrepare("UPDATE test SET title = 'Updated' WHERE test.id = 1").
		ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, e.Commit(ctx, 0))

	// The write invalidated the table's entries, so the next load queries.
	mock.ExpectPrepare("SELECT * FROM test WHERE test.id = 1").ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(1, "Updated"))

	e2, err := rowset.Load(ctx, drv, testDesc, args, rowset.WithCache(cache, 0))
	require.NoError(t, err)
	title, err := e2.Get(0, "title")
	require.NoError(t, err)
	assert.Equal(t, "Updated", title)

	require.NoError(t, mock.ExpectationsWereMet())
}
