package dialect

import "context"

// Dialect names.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Driver is the database collaborator contract. The engine prepares one
// statement per operation, executes it, fetches rows, and releases the
// statement on every path. Implementations decide how to map this onto a
// concrete database API; see the sql subpackage for the database/sql one.
type Driver interface {
	// Prepare compiles a statement for later execution.
	Prepare(ctx context.Context, query string) (Stmt, error)

	// Exec runs a statement that needs no result set, such as DELETE.
	Exec(ctx context.Context, query string) error

	// Quote escapes a value into a quoted SQL string literal.
	Quote(v string) string

	// Dialect returns the dialect name of the underlying database.
	Dialect() string

	// Close releases the underlying connection.
	Close() error
}

// Stmt is a prepared statement. Close must be called exactly once per
// prepared statement, on success and failure paths alike.
type Stmt interface {
	// Execute runs the statement.
	Execute(ctx context.Context) error

	// Next returns the next result row as a column-keyed map, or nil at the
	// end of the result set. NULL values carry the engine's NULL marker.
	Next() (map[string]string, error)

	// LastInsertID returns the generated key of an executed INSERT.
	LastInsertID() (int64, error)

	// Close releases the statement.
	Close() error
}
