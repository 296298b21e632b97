package schema

import (
	"errors"
	"fmt"
)

// Value markers understood by the engine. Values travel as strings; NULL and
// IS NULL are represented by these literals.
const (
	// Null is the stored-value marker for SQL NULL.
	Null = "NULL"

	// IsNull is the WHERE-argument marker that renders as `col IS NULL`
	// instead of an equality term.
	IsNull = "IS NULL"
)

// Foreign describes a single-hop join to another table. A foreign column
// selects ActualColumn (or the column's own name) from Table, joined on
// LKey = RKey.
type Foreign struct {
	Table        string `yaml:"table"`
	LKey         string `yaml:"lkey"`
	RKey         string `yaml:"rkey"`
	ActualTable  string `yaml:"actual_table,omitempty"`
	ActualColumn string `yaml:"actual_column,omitempty"`
}

// Special carries raw SQL fragments for columns the relational model can't
// express directly. Fragments are opaque text, validated for presence only.
type Special struct {
	Select  string `yaml:"select,omitempty"`
	Join    string `yaml:"join,omitempty"`
	Where   string `yaml:"where,omitempty"`
	GroupBy string `yaml:"groupby,omitempty"`
}

// Column is a single column definition. It is a tagged variant: at most one
// of Foreign/Special is set, and either one forces Immutable.
type Column struct {
	Name          string
	Immutable     bool
	AutoIncrement bool
	Nullable      bool
	Quoted        bool
	HasDefault    bool
	Default       string
	Foreign       *Foreign
	Special       *Special
}

// Plain returns a plain column definition for name.
func Plain(name string) Column {
	return Column{Name: name}
}

// ForeignKey returns a foreign column definition. Foreign columns are always
// immutable.
func ForeignKey(name string, f Foreign) Column {
	return Column{Name: name, Immutable: true, Foreign: &f}
}

// Raw returns a special column definition carrying raw SQL fragments.
// Special columns are always immutable.
func Raw(name string, s Special) Column {
	return Column{Name: name, Immutable: true, Special: &s}
}

// WithImmutable marks the column immutable.
func (c Column) WithImmutable() Column {
	c.Immutable = true
	return c
}

// WithAutoIncrement marks the column auto-incrementing.
func (c Column) WithAutoIncrement() Column {
	c.AutoIncrement = true
	return c
}

// WithNullable marks the column nullable. Setting a nullable column to the
// empty string stores the NULL marker.
func (c Column) WithNullable() Column {
	c.Nullable = true
	return c
}

// WithQuoted routes the column's values through the driver's quote function
// when rendered into SQL.
func (c Column) WithQuoted() Column {
	c.Quoted = true
	return c
}

// WithDefault sets the column default, used on INSERT when no value is
// present. Pass Null for a NULL default.
func (c Column) WithDefault(v string) Column {
	c.HasDefault = true
	c.Default = v
	return c
}

// Writable reports whether the column accepts local edits: not immutable and
// neither foreign nor special.
func (c *Column) Writable() bool {
	return !c.Immutable && c.Foreign == nil && c.Special == nil
}

// Insertable reports whether the column participates in INSERT column lists.
func (c *Column) Insertable() bool {
	return c.Foreign == nil && c.Special == nil
}

// Descriptor is the static, per-entity-type metadata: table name, ordered
// unique-key groups, ordered columns and declared relations. It is immutable
// after Build and shared by every entity of the type.
type Descriptor struct {
	name       string
	table      string
	columns    []Column
	index      map[string]int
	uniqueKeys [][]string
	relations  map[string]map[string]string
}

// Name returns the entity-type name.
func (d *Descriptor) Name() string { return d.name }

// Table returns the primary table name.
func (d *Descriptor) Table() string { return d.table }

// Columns returns the column definitions in declared order. The returned
// slice must not be modified.
func (d *Descriptor) Columns() []Column { return d.columns }

// Column returns the named column definition.
func (d *Descriptor) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return &d.columns[i], true
}

// HasColumn reports whether name is a declared column.
func (d *Descriptor) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// UniqueKeys returns the unique-key column groups in declared order.
func (d *Descriptor) UniqueKeys() [][]string { return d.uniqueKeys }

// Relation returns the foreign-column to local-column mapping declared for
// the named entity type.
func (d *Descriptor) Relation(entity string) (map[string]string, bool) {
	m, ok := d.relations[entity]
	return m, ok
}

// Builder assembles a Descriptor. Zero or more columns, unique keys and
// relations are added, then Build validates the whole description at once.
type Builder struct {
	name       string
	table      string
	columns    []Column
	uniqueKeys [][]string
	relations  map[string]map[string]string
}

// New returns a Builder for the named entity type. If no table is set, the
// table name is derived from the entity name (underscored and pluralized).
func New(name string) *Builder {
	return &Builder{name: name}
}

// Table sets the primary table name.
func (b *Builder) Table(t string) *Builder {
	b.table = t
	return b
}

// Columns appends column definitions in declared order.
func (b *Builder) Columns(cols ...Column) *Builder {
	b.columns = append(b.columns, cols...)
	return b
}

// Unique appends a unique-key column group. Groups are tried in the order
// they are declared.
func (b *Builder) Unique(cols ...string) *Builder {
	b.uniqueKeys = append(b.uniqueKeys, cols)
	return b
}

// Relation declares a relation to another entity type: mapping keys are the
// target's columns, values are this entity's columns.
func (b *Builder) Relation(entity string, mapping map[string]string) *Builder {
	if b.relations == nil {
		b.relations = make(map[string]map[string]string)
	}
	b.relations[entity] = mapping
	return b
}

// Build validates the description and returns the immutable Descriptor.
func (b *Builder) Build() (*Descriptor, error) {
	d := &Descriptor{
		name:       b.name,
		table:      b.table,
		columns:    b.columns,
		index:      make(map[string]int, len(b.columns)),
		uniqueKeys: b.uniqueKeys,
		relations:  b.relations,
	}
	if d.name == "" {
		return nil, NewConfigurationError(d.name, errors.New("entity name is required"))
	}
	if d.table == "" {
		d.table = TableName(d.name)
	}
	if len(d.columns) == 0 {
		return nil, NewConfigurationError(d.name, errors.New("at least one column is required"))
	}
	for i := range d.columns {
		c := &d.columns[i]
		if c.Name == "" {
			return nil, NewConfigurationError(d.name, fmt.Errorf("column %d has no name", i))
		}
		if _, dup := d.index[c.Name]; dup {
			return nil, NewConfigurationError(d.name, fmt.Errorf("duplicate column %q", c.Name))
		}
		if c.Foreign != nil && c.Special != nil {
			return nil, NewConfigurationError(d.name, fmt.Errorf("column %q is both foreign and special", c.Name))
		}
		if c.Foreign != nil || c.Special != nil {
			if !c.Immutable {
				return nil, NewConfigurationError(d.name, fmt.Errorf("column %q must be immutable", c.Name))
			}
		}
		if f := c.Foreign; f != nil {
			if f.Table == "" || f.LKey == "" || f.RKey == "" {
				return nil, NewConfigurationError(d.name, fmt.Errorf("column %q: foreign spec needs table, lkey and rkey", c.Name))
			}
		}
		if s := c.Special; s != nil {
			if *s == (Special{}) {
				return nil, NewConfigurationError(d.name, fmt.Errorf("column %q: special spec is empty", c.Name))
			}
		}
		d.index[c.Name] = i
	}
	for _, group := range d.uniqueKeys {
		if len(group) == 0 {
			return nil, NewConfigurationError(d.name, errors.New("empty unique-key group"))
		}
		for _, name := range group {
			if _, ok := d.index[name]; !ok {
				return nil, NewConfigurationError(d.name, fmt.Errorf("unique key references unknown column %q", name))
			}
		}
	}
	for entity, mapping := range d.relations {
		for _, local := range mapping {
			if _, ok := d.index[local]; !ok {
				return nil, NewConfigurationError(d.name, fmt.Errorf("relation %q maps unknown local column %q", entity, local))
			}
		}
	}
	return d, nil
}

// MustBuild is like Build but panics on validation failure. Intended for
// package-level descriptor variables.
func (b *Builder) MustBuild() *Descriptor {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
