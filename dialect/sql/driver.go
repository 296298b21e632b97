package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/rowset/dialect"
	"github.com/syssam/rowset/schema"
)

// Driver is a dialect.Driver implementation on top of database/sql.
type Driver struct {
	db      *sql.DB
	dialect string
}

// Open wraps database/sql.Open and returns a Driver for the named dialect.
func Open(dialect, source string) (*Driver, error) {
	db, err := sql.Open(dialect, source)
	if err != nil {
		return nil, err
	}
	return OpenDB(dialect, db), nil
}

// OpenDB wraps an existing database/sql.DB with a Driver.
func OpenDB(dialect string, db *sql.DB) *Driver {
	return &Driver{db: db, dialect: dialect}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect implements the dialect.Driver method.
func (d *Driver) Dialect() string {
	// If the driver name is suffixed, e.g. a telemetry wrapper.
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.db.Close() }

// Exec runs a statement that needs no result set.
func (d *Driver) Exec(ctx context.Context, query string) error {
	if _, err := d.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("dialect/sql: exec: %w", err)
	}
	return nil
}

// Quote escapes a value into a quoted SQL string literal. Single quotes are
// doubled; for MySQL, backslashes are doubled as well.
func (d *Driver) Quote(v string) string {
	if d.Dialect() == dialect.MySQL {
		v = strings.ReplaceAll(v, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// Prepare compiles a statement for later execution.
func (d *Driver) Prepare(ctx context.Context, query string) (dialect.Stmt, error) {
	st, err := d.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: prepare: %w", err)
	}
	return &Stmt{stmt: st, query: query}, nil
}

// Stmt is a prepared statement over database/sql. A statement is executed at
// most once and must be closed exactly once.
type Stmt struct {
	stmt    *sql.Stmt
	query   string
	rows    *sql.Rows
	columns []string
	result  sql.Result
}

// Execute runs the statement. Statements beginning with SELECT produce a
// result set consumed through Next; anything else produces a Result for
// LastInsertID.
func (s *Stmt) Execute(ctx context.Context) error {
	keyword, _, _ := strings.Cut(strings.TrimSpace(s.query), " ")
	if strings.EqualFold(keyword, "SELECT") {
		rows, err := s.stmt.QueryContext(ctx)
		if err != nil {
			return fmt.Errorf("dialect/sql: execute: %w", err)
		}
		columns, err := rows.Columns()
		if err != nil {
			err = errors.Join(err, rows.Close())
			return fmt.Errorf("dialect/sql: execute: %w", err)
		}
		s.rows, s.columns = rows, columns
		return nil
	}
	result, err := s.stmt.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("dialect/sql: execute: %w", err)
	}
	s.result = result
	return nil
}

// Next returns the next result row as a column-keyed map, or nil at the end
// of the result set. Database NULLs carry the engine's NULL marker.
func (s *Stmt) Next() (map[string]string, error) {
	if s.rows == nil {
		return nil, nil
	}
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, fmt.Errorf("dialect/sql: fetch: %w", err)
		}
		return nil, nil
	}
	raw := make([]sql.RawBytes, len(s.columns))
	dest := make([]any, len(s.columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("dialect/sql: scan: %w", err)
	}
	row := make(map[string]string, len(s.columns))
	for i, name := range s.columns {
		if raw[i] == nil {
			row[name] = schema.Null
			continue
		}
		row[name] = string(raw[i])
	}
	return row, nil
}

// LastInsertID returns the generated key of an executed INSERT.
func (s *Stmt) LastInsertID() (int64, error) {
	if s.result == nil {
		return 0, errors.New("dialect/sql: statement produced no result")
	}
	return s.result.LastInsertId()
}

// Close releases the result set, if any, and the statement.
func (s *Stmt) Close() error {
	var err error
	if s.rows != nil {
		err = s.rows.Close()
		s.rows = nil
	}
	return errors.Join(err, s.stmt.Close())
}

var _ dialect.Driver = (*Driver)(nil)
