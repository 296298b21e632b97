package rowset

import (
	"github.com/syssam/rowset/schema"
	"github.com/syssam/rowset/sqlgen"
)

// Row is one tracked table row: its column values, whether it exists in the
// database, and which columns carry unsaved local edits. The dirty set is
// the authoritative record of unsaved changes; commit clears it and refresh
// repopulates refreshed columns out of it.
type Row struct {
	values    map[string]string
	dirty     map[string]struct{}
	persisted bool
}

func newRow() *Row {
	return &Row{
		values: make(map[string]string),
		dirty:  make(map[string]struct{}),
	}
}

// row returns the stored row at index i.
func (e *Entity) row(i int) (*Row, error) {
	if i < 0 || i >= len(e.rows) {
		return nil, ErrRowRange
	}
	return e.rows[i], nil
}

// Get returns the stored value of a column on the given row, or the empty
// string when no value is present.
func (e *Entity) Get(row int, column string) (string, error) {
	r, err := e.row(row)
	if err != nil {
		return "", err
	}
	if !e.desc.HasColumn(column) {
		return "", sqlgen.NewUnknownColumnError(column)
	}
	return r.values[column], nil
}

// Set applies local edits to the given row. Every target column must be
// declared and writable, and validation completes before any value mutates.
// A changed value marks its column dirty; setting a nullable column to the
// empty string stores the NULL marker.
func (e *Entity) Set(row int, values map[string]string) error {
	r, err := e.row(row)
	if err != nil {
		return err
	}
	for name := range values {
		c, ok := e.desc.Column(name)
		if !ok {
			return sqlgen.NewUnknownColumnError(name)
		}
		if !c.Writable() {
			return NewImmutableColumnError(name)
		}
	}
	for _, c := range e.desc.Columns() {
		v, ok := values[c.Name]
		if !ok {
			continue
		}
		if c.Nullable && v == "" {
			v = schema.Null
		}
		if cur, present := r.values[c.Name]; present && cur == v {
			continue
		}
		r.values[c.Name] = v
		r.dirty[c.Name] = struct{}{}
	}
	return nil
}

// Persisted reports whether the given row exists in the database.
func (e *Entity) Persisted(row int) (bool, error) {
	r, err := e.row(row)
	if err != nil {
		return false, err
	}
	return r.persisted, nil
}

// Dirty returns the columns of the given row carrying unsaved edits, in
// declared order.
func (e *Entity) Dirty(row int) ([]string, error) {
	r, err := e.row(row)
	if err != nil {
		return nil, err
	}
	var cols []string
	for _, c := range e.desc.Columns() {
		if _, ok := r.dirty[c.Name]; ok {
			cols = append(cols, c.Name)
		}
	}
	return cols, nil
}
