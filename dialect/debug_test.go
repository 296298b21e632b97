package dialect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rowset/dialect"
)

// fakeDriver records calls and plays back canned rows.
type fakeDriver struct {
	rows    []map[string]string
	prepErr error
	execErr error
}

func (f *fakeDriver) Prepare(context.Context, string) (dialect.Stmt, error) {
	if f.prepErr != nil {
		return nil, f.prepErr
	}
	return &fakeStmt{rows: f.rows}, nil
}

func (f *fakeDriver) Exec(context.Context, string) error { return f.execErr }
func (f *fakeDriver) Quote(v string) string              { return "'" + v + "'" }
func (f *fakeDriver) Dialect() string                    { return dialect.SQLite }
func (f *fakeDriver) Close() error                       { return nil }

type fakeStmt struct {
	rows []map[string]string
	next int
}

func (s *fakeStmt) Execute(context.Context) error { return nil }

func (s *fakeStmt) Next() (map[string]string, error) {
	if s.next >= len(s.rows) {
		return nil, nil
	}
	row := s.rows[s.next]
	s.next++
	return row, nil
}

func (s *fakeStmt) LastInsertID() (int64, error) { return 0, nil }
func (s *fakeStmt) Close() error                 { return nil }

// captureSink collects everything emitted.
type captureSink struct {
	levels   []dialect.Level
	messages []string
}

func (c *captureSink) Emit(level dialect.Level, msg string) {
	c.levels = append(c.levels, level)
	c.messages = append(c.messages, msg)
}

func TestDebugTracesStatements(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	drv := dialect.Debug(&fakeDriver{rows: []map[string]string{{"id": "1"}}}, sink)

	stmt, err := drv.Prepare(context.Background(), "SELECT * FROM test")
	require.NoError(t, err)
	require.NoError(t, stmt.Execute(context.Background()))
	row, err := stmt.Next()
	require.NoError(t, err)
	require.NotNil(t, row)
	row, err = stmt.Next()
	require.NoError(t, err)
	require.Nil(t, row)
	require.NoError(t, stmt.Close())

	require.Len(t, sink.messages, 2)
	assert.Equal(t, dialect.LevelTrace, sink.levels[0])
	assert.Contains(t, sink.messages[0], "SELECT * FROM test")
	assert.Equal(t, dialect.LevelInfo, sink.levels[1])
	assert.Contains(t, sink.messages[1], "1 rows fetched")
}

func TestDebugThreshold(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	drv := dialect.Debug(
		&fakeDriver{prepErr: errors.New("boom")},
		sink,
		dialect.WithThreshold(dialect.LevelError),
	)

	_, err := drv.Prepare(context.Background(), "SELECT 1")
	require.Error(t, err)

	// The trace message was gated; only the failure got through.
	require.Len(t, sink.messages, 1)
	assert.Equal(t, dialect.LevelError, sink.levels[0])
}

func TestDebugExec(t *testing.T) {
	t.Parallel()

	t.Run("success traces", func(t *testing.T) {
		t.Parallel()
		sink := &captureSink{}
		drv := dialect.Debug(&fakeDriver{}, sink)
		require.NoError(t, drv.Exec(context.Background(), "DELETE FROM test WHERE test.id = 1"))
		require.Len(t, sink.messages, 1)
		assert.Equal(t, dialect.LevelTrace, sink.levels[0])
	})

	t.Run("failure reports", func(t *testing.T) {
		t.Parallel()
		sink := &captureSink{}
		drv := dialect.Debug(&fakeDriver{execErr: errors.New("boom")}, sink)
		require.Error(t, drv.Exec(context.Background(), "DELETE FROM test WHERE test.id = 1"))
		require.Len(t, sink.messages, 2)
		assert.Equal(t, dialect.LevelError, sink.levels[1])
	})
}

func TestSinkFunc(t *testing.T) {
	t.Parallel()

	var got string
	sink := dialect.SinkFunc(func(_ dialect.Level, msg string) { got = msg })
	sink.Emit(dialect.LevelInfo, "hello")
	assert.Equal(t, "hello", got)
}
