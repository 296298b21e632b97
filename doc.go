// Package rowset is a metadata-driven query-generation and row-state engine.
// A declarative table description (package schema) is compiled into literal
// SQL statements (package sqlgen) executed through a database collaborator
// (package dialect), and results are tracked as mutable, dirty-checked rows
// that write back minimally: UPDATEs carry only dirty columns and target the
// first safely-resolvable unique key.
//
// Entities come into existence through Load or Create only:
//
//	e, err := rowset.Load(ctx, drv, desc, rowset.LoadArgs{
//	    Where: []rowset.Cond{{Column: "chanid", Value: "1009"}},
//	})
//	if err != nil { ... }
//	if err := e.Set(0, map[string]string{"title": "News"}); err != nil { ... }
//	if err := e.Commit(ctx, 0); err != nil { ... }
//
// Every operation is synchronous, issues at most one round trip, and either
// completes fully or returns a typed error with no half-populated state.
package rowset
