// Package schema defines the static, per-entity-type table description
// consumed by the query builder and the entity lifecycle: the primary table,
// an ordered column list with per-column flags, ordered unique-key groups
// and declared relations to other entity types.
//
// A column is a tagged variant: plain, foreign (a single-hop join to another
// table) or special (raw SQL fragments for what the column model can't
// express). Descriptors are built fluently or loaded from YAML, validated
// once, and immutable afterwards:
//
//	desc, err := schema.New("Recording").
//	    Columns(
//	        schema.Plain("id").WithAutoIncrement().WithImmutable().WithDefault(schema.Null),
//	        schema.Plain("title").WithQuoted(),
//	    ).
//	    Unique("id").
//	    Build()
package schema
