package rowset

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/syssam/rowset/dialect"
	"github.com/syssam/rowset/schema"
	"github.com/syssam/rowset/sqlgen"
)

// Cond is one equality term of a WHERE argument list.
type Cond = sqlgen.Cond

// AllColumns is the column-set marker that expands to every plain column.
const AllColumns = sqlgen.AllColumns

// LoadArgs are the arguments of a Load: equality WHERE terms, a requested
// column set, a row window, and grouping/ordering.
type LoadArgs struct {
	Where   []Cond
	Columns []string
	Index   int
	Count   int
	GroupBy string
	OrderBy string
}

// Entity is an ordered collection of tracked rows of one entity type,
// together with the descriptor and driver every operation needs. Entities
// are created only by Load and Create. An Entity is plain mutable state; if
// shared between goroutines, the caller serializes access.
type Entity struct {
	desc      *schema.Descriptor
	drv       dialect.Driver
	rows      []*Row
	queryRows int
	cache     Cache
	cacheTTL  time.Duration
}

// Option configures an Entity at construction.
type Option func(*Entity)

func newEntity(drv dialect.Driver, desc *schema.Descriptor, opts []Option) (*Entity, error) {
	if drv == nil {
		return nil, ErrMissingDriver
	}
	if desc == nil {
		return nil, schema.NewConfigurationError("", errors.New("nil descriptor"))
	}
	e := &Entity{desc: desc, drv: drv}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Entity) builder() *sqlgen.Builder {
	return sqlgen.New(e.desc, e.drv.Quote)
}

// run prepares and executes one statement, hands it to fn, and releases it
// on every path.
func (e *Entity) run(ctx context.Context, query string, fn func(dialect.Stmt) error) (rerr error) {
	stmt, err := e.drv.Prepare(ctx, query)
	if err != nil {
		return NewQueryError(e.desc.Name(), query, err)
	}
	defer func() { rerr = errors.Join(rerr, stmt.Close()) }()
	if err := stmt.Execute(ctx); err != nil {
		return NewQueryError(e.desc.Name(), query, err)
	}
	if fn != nil {
		return fn(stmt)
	}
	return nil
}

// seedValues derives best-effort row values from the WHERE equality
// arguments: literal values as given, the NULL marker for IS NULL terms.
func seedValues(where []Cond) map[string]string {
	if len(where) == 0 {
		return nil
	}
	seed := make(map[string]string, len(where))
	for _, w := range where {
		if w.Value == schema.IsNull {
			seed[w.Column] = schema.Null
			continue
		}
		seed[w.Column] = w.Value
	}
	return seed
}

// Load builds and executes a SELECT for the given arguments and returns an
// Entity holding the rows of the window [Index, Index+Count), or every
// matched row when Count is zero. Values are seeded from the WHERE equality
// arguments and overwritten by the returned columns. A query that matches no
// row in the window fails with NoDataError.
func Load(ctx context.Context, drv dialect.Driver, desc *schema.Descriptor, args LoadArgs, opts ...Option) (*Entity, error) {
	e, err := newEntity(drv, desc, opts)
	if err != nil {
		return nil, err
	}
	query, err := e.builder().Select(sqlgen.SelectArgs{
		Where:   args.Where,
		Columns: args.Columns,
		GroupBy: args.GroupBy,
		OrderBy: args.OrderBy,
	})
	if err != nil {
		return nil, err
	}
	if e.loadCached(ctx, query, args.Index, args.Count) {
		return e, nil
	}
	seed := seedValues(args.Where)
	fetched := 0
	err = e.run(ctx, query, func(stmt dialect.Stmt) error {
		for {
			data, err := stmt.Next()
			if err != nil {
				return NewQueryError(desc.Name(), query, err)
			}
			if data == nil {
				return nil
			}
			idx := fetched
			fetched++
			if idx < args.Index {
				continue
			}
			if args.Count > 0 && len(e.rows) >= args.Count {
				continue
			}
			r := newRow()
			for k, v := range seed {
				r.values[k] = v
			}
			for k, v := range data {
				if desc.HasColumn(k) {
					r.values[k] = v
				}
			}
			r.persisted = true
			e.rows = append(e.rows, r)
		}
	})
	if err != nil {
		return nil, err
	}
	e.queryRows = fetched
	if len(e.rows) == 0 {
		return nil, NewNoDataError(desc.Name())
	}
	e.storeCached(ctx, query, args.Index, args.Count)
	return e, nil
}

// Create returns an Entity holding a single fresh row with no values, not
// yet present in the database. No query is executed; the first Commit
// issues the INSERT.
func Create(drv dialect.Driver, desc *schema.Descriptor, opts ...Option) (*Entity, error) {
	e, err := newEntity(drv, desc, opts)
	if err != nil {
		return nil, err
	}
	e.rows = append(e.rows, newRow())
	return e, nil
}

// Count executes the scalar COUNT statement for the given WHERE arguments
// and returns the result directly, populating no rows.
func Count(ctx context.Context, drv dialect.Driver, desc *schema.Descriptor, where []Cond, opts ...Option) (int, error) {
	e, err := newEntity(drv, desc, opts)
	if err != nil {
		return 0, err
	}
	return e.count(ctx, where)
}

// Count executes the scalar COUNT statement with the entity's driver and
// descriptor.
func (e *Entity) Count(ctx context.Context, where []Cond) (int, error) {
	return e.count(ctx, where)
}

func (e *Entity) count(ctx context.Context, where []Cond) (int, error) {
	query, err := e.builder().Count(where)
	if err != nil {
		return 0, err
	}
	if n, ok := e.countCached(ctx, query); ok {
		return n, nil
	}
	n := 0
	err = e.run(ctx, query, func(stmt dialect.Stmt) error {
		data, err := stmt.Next()
		if err != nil {
			return NewQueryError(e.desc.Name(), query, err)
		}
		if data == nil {
			return NewNoDataError(e.desc.Name())
		}
		n, err = strconv.Atoi(data["count"])
		if err != nil {
			return NewQueryError(e.desc.Name(), query, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.storeCachedCount(ctx, query, n)
	return n, nil
}

// Descriptor returns the entity type's schema descriptor.
func (e *Entity) Descriptor() *schema.Descriptor { return e.desc }

// StoredRowCount returns the number of materialized rows.
func (e *Entity) StoredRowCount() int { return len(e.rows) }

// QueryRowCount returns the number of rows the last query matched, before
// any window slicing.
func (e *Entity) QueryRowCount() int { return e.queryRows }

// Append grows the entity with a fresh unpersisted row and returns its
// index.
func (e *Entity) Append() int {
	e.rows = append(e.rows, newRow())
	return len(e.rows) - 1
}
