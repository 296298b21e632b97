// Package dialect defines the database collaborator contract of the engine:
// the Driver that prepares and executes statements, the Stmt handle whose
// Close is guaranteed exactly once per statement, and the leveled debug Sink
// that receives SQL traces without taking part in control flow.
//
// Dialect names identify the underlying database:
//
//	dialect.MySQL    = "mysql"
//	dialect.Postgres = "postgres"
//	dialect.SQLite   = "sqlite"
//
// The sql subpackage implements the contract on top of database/sql.
package dialect
