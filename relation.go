package rowset

import (
	"context"
	"slices"

	"github.com/syssam/rowset/schema"
)

// LoadRelated loads entities of the target type related to the given row.
// The relation declared on this entity's descriptor maps target columns to
// local columns; every WHERE argument naming a mapped column is rewritten
// with the row's current value for the local column before delegating to
// Load with this entity's driver.
func (e *Entity) LoadRelated(ctx context.Context, target *schema.Descriptor, row int, args LoadArgs, opts ...Option) (*Entity, error) {
	r, err := e.row(row)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, NewUnknownRelationError(e.desc.Name(), "")
	}
	mapping, ok := e.desc.Relation(target.Name())
	if !ok {
		return nil, NewUnknownRelationError(e.desc.Name(), target.Name())
	}
	where := slices.Clone(args.Where)
	for i, w := range where {
		if local, mapped := mapping[w.Column]; mapped {
			where[i].Value = r.values[local]
		}
	}
	args.Where = where
	return Load(ctx, e.drv, target, args, opts...)
}
