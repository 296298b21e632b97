package rowset

import (
	"context"
	"strconv"

	"github.com/syssam/rowset/dialect"
)

// Commit writes the given row's unsaved edits back. A clean row is a no-op.
// A persisted row issues an UPDATE of its dirty columns targeted by a
// unique key; an unpersisted row issues an INSERT, and an absent
// auto-increment column is assigned from the generated key afterwards. On
// success the dirty set clears and the row is persisted.
func (e *Entity) Commit(ctx context.Context, row int) error {
	r, err := e.row(row)
	if err != nil {
		return err
	}
	if len(r.dirty) == 0 {
		return nil
	}
	b := e.builder()
	if r.persisted {
		where, err := b.UniqueKeyWhere(r.values, r.dirty, nil)
		if err != nil {
			return err
		}
		if err := e.run(ctx, b.Update(r.values, r.dirty, where), nil); err != nil {
			return err
		}
	} else {
		query, err := b.Insert(r.values)
		if err != nil {
			return err
		}
		err = e.run(ctx, query, func(stmt dialect.Stmt) error {
			for _, c := range e.desc.Columns() {
				if !c.AutoIncrement {
					continue
				}
				if _, ok := r.values[c.Name]; ok {
					continue
				}
				id, err := stmt.LastInsertID()
				if err != nil {
					return NewQueryError(e.desc.Name(), query, err)
				}
				r.values[c.Name] = strconv.FormatInt(id, 10)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	r.dirty = make(map[string]struct{})
	r.persisted = true
	e.invalidateCache(ctx)
	return nil
}

// Refresh re-reads the named columns of the given row from the database,
// targeted by a unique key, overwriting their values and clearing their
// dirty flags. A row no longer present fails with NoDataError.
func (e *Entity) Refresh(ctx context.Context, row int, columns []string) error {
	r, err := e.row(row)
	if err != nil {
		return err
	}
	b := e.builder()
	cols, err := b.ExpandColumns(columns)
	if err != nil {
		return err
	}
	where, err := b.UniqueKeyWhere(r.values, r.dirty, cols)
	if err != nil {
		return err
	}
	query, err := b.SelectWhere(cols, where)
	if err != nil {
		return err
	}
	return e.run(ctx, query, func(stmt dialect.Stmt) error {
		data, err := stmt.Next()
		if err != nil {
			return NewQueryError(e.desc.Name(), query, err)
		}
		if data == nil {
			return NewNoDataError(e.desc.Name())
		}
		for _, name := range cols {
			if v, ok := data[name]; ok {
				r.values[name] = v
				delete(r.dirty, name)
			}
		}
		return nil
	})
}

// Remove deletes the given row from the database, targeted by a unique key.
// The row slot stays addressable with its persisted flag down; a later
// Commit re-inserts it as a fresh row.
func (e *Entity) Remove(ctx context.Context, row int) error {
	r, err := e.row(row)
	if err != nil {
		return err
	}
	b := e.builder()
	where, err := b.UniqueKeyWhere(r.values, r.dirty, nil)
	if err != nil {
		return err
	}
	query := b.Delete(where)
	if err := e.drv.Exec(ctx, query); err != nil {
		return NewQueryError(e.desc.Name(), query, err)
	}
	r.persisted = false
	e.invalidateCache(ctx)
	return nil
}
