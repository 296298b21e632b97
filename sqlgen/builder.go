// Package sqlgen assembles SQL statement text from a schema descriptor and
// caller arguments. Everything here is pure text assembly: no statement is
// executed, and nothing is retained between calls.
//
// Statements are rendered as literal SQL. Values of columns flagged quoted
// pass through the injected quote function; unquoted values render raw, and
// callers are responsible for their safety. The rendered shapes are a
// compatibility contract and are asserted byte-exact by tests.
package sqlgen

import (
	"strings"

	"github.com/syssam/rowset/schema"
)

// AllColumns is the column-set marker that expands to every plain column not
// already requested explicitly, in schema-declared order.
const AllColumns = "all"

// Cond is one equality term of a WHERE clause. A Value equal to
// schema.IsNull renders as `col IS NULL` instead of an equality.
type Cond struct {
	Column string
	Value  string
}

// SelectArgs are the caller arguments of a SELECT build.
type SelectArgs struct {
	Where   []Cond
	Columns []string
	GroupBy string
	OrderBy string
}

// Builder renders statements for one descriptor. The quote function is the
// driver's escaping routine for quoted column values.
type Builder struct {
	desc  *schema.Descriptor
	quote func(string) string
}

// New returns a Builder for desc using quote for quoted-column values.
func New(desc *schema.Descriptor, quote func(string) string) *Builder {
	return &Builder{desc: desc, quote: quote}
}

// ExpandColumns validates a requested column set and expands the AllColumns
// marker to the plain columns not already requested, in declared order.
func (b *Builder) ExpandColumns(cols []string) ([]string, error) {
	if len(cols) == 0 {
		return nil, nil
	}
	explicit := make(map[string]struct{}, len(cols))
	for _, name := range cols {
		if name == AllColumns {
			continue
		}
		if !b.desc.HasColumn(name) {
			return nil, NewInvalidColumnSetError(name)
		}
		explicit[name] = struct{}{}
	}
	out := make([]string, 0, len(cols))
	for _, name := range cols {
		if name != AllColumns {
			out = append(out, name)
			continue
		}
		for _, c := range b.desc.Columns() {
			if c.Foreign != nil || c.Special != nil {
				continue
			}
			if _, ok := explicit[c.Name]; ok {
				continue
			}
			out = append(out, c.Name)
			explicit[c.Name] = struct{}{}
		}
	}
	return out, nil
}

// ColumnList renders the SELECT list for an expanded column set. An empty
// set renders the wildcard, deferring the column choice to the database.
func (b *Builder) ColumnList(cols []string) string {
	if len(cols) == 0 {
		return "*"
	}
	table := b.desc.Table()
	parts := make([]string, 0, len(cols))
	for _, name := range cols {
		c, _ := b.desc.Column(name)
		switch {
		case c.Foreign != nil:
			f := c.Foreign
			sel := f.Table + "." + name
			if f.ActualColumn != "" && f.ActualColumn != name {
				sel = f.Table + "." + f.ActualColumn + " AS " + name
			}
			parts = append(parts, sel)
		case c.Special != nil:
			parts = append(parts, c.Special.Select)
		default:
			parts = append(parts, table+"."+name)
		}
	}
	return strings.Join(parts, ", ")
}

// joinKeywords are the fragment openers that suppress the JOIN prefix on
// special join fragments.
var joinKeywords = []string{"JOIN", "INNER", "LEFT", "RIGHT", "OUTER", "CROSS", "NATURAL", "STRAIGHT_JOIN"}

func startsWithJoin(fragment string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(fragment), " ")
	first = strings.ToUpper(first)
	for _, kw := range joinKeywords {
		if first == kw {
			return true
		}
	}
	return false
}

// FromClause renders the FROM/JOIN clause for an expanded column set: the
// primary table plus one join per requested foreign column and per special
// join fragment.
func (b *Builder) FromClause(cols []string) string {
	var sb strings.Builder
	sb.WriteString(b.desc.Table())
	for _, name := range cols {
		c, _ := b.desc.Column(name)
		switch {
		case c.Foreign != nil:
			f := c.Foreign
			sb.WriteString(" JOIN ")
			if f.ActualTable != "" {
				sb.WriteString(f.ActualTable + " AS " + f.Table)
			} else {
				sb.WriteString(f.Table)
			}
		case c.Special != nil && c.Special.Join != "":
			sb.WriteString(" ")
			if !startsWithJoin(c.Special.Join) {
				sb.WriteString("JOIN ")
			}
			sb.WriteString(c.Special.Join)
		}
	}
	return sb.String()
}

// value renders a column value for INSERT/UPDATE lists. The NULL marker
// renders as the keyword, quoted columns go through the quote function, and
// everything else renders raw.
func (b *Builder) value(c *schema.Column, v string) string {
	if v == schema.Null {
		return "NULL"
	}
	if c.Quoted {
		return b.quote(v)
	}
	return v
}

// whereTerm renders one equality term, qualified by the primary table or by
// the column's foreign table.
func (b *Builder) whereTerm(c *schema.Column, v string) string {
	qual := b.desc.Table()
	if c.Foreign != nil {
		qual = c.Foreign.Table
	}
	if v == schema.IsNull {
		return qual + "." + c.Name + " IS NULL"
	}
	return qual + "." + c.Name + " = " + b.value(c, v)
}

// foreignTerm renders the join condition enabling a foreign column's join.
func (b *Builder) foreignTerm(f *schema.Foreign) string {
	return f.Table + "." + f.RKey + " = " + b.desc.Table() + "." + f.LKey
}

// WhereClause renders the WHERE terms for the explicit equality arguments
// followed by the join conditions of the requested foreign columns and the
// requested special where fragments. It returns the empty string when no
// term was produced; the WHERE keyword is the caller's to add.
func (b *Builder) WhereClause(where []Cond, cols []string) (string, error) {
	var terms []string
	for _, w := range where {
		c, ok := b.desc.Column(w.Column)
		if !ok {
			return "", NewUnknownColumnError(w.Column)
		}
		terms = append(terms, b.whereTerm(c, w.Value))
	}
	for _, name := range cols {
		if c, _ := b.desc.Column(name); c.Foreign != nil {
			terms = append(terms, b.foreignTerm(c.Foreign))
		}
	}
	for _, name := range cols {
		if c, _ := b.desc.Column(name); c.Special != nil && c.Special.Where != "" {
			terms = append(terms, c.Special.Where)
		}
	}
	return strings.Join(terms, " AND "), nil
}

// GroupByClause derives the GROUP BY expression from a special groupby
// fragment found among the requested columns or from the explicit argument.
// Differing values from both sources conflict; a special fragment renders
// verbatim, an explicit argument is validated and table-qualified.
func (b *Builder) GroupByClause(cols []string, explicit string) (string, error) {
	special := ""
	for _, name := range cols {
		if c, _ := b.desc.Column(name); c.Special != nil && c.Special.GroupBy != "" {
			special = c.Special.GroupBy
			break
		}
	}
	switch {
	case special != "" && explicit != "" && special != explicit:
		return "", NewConflictingGroupByError(special, explicit)
	case special != "":
		return special, nil
	case explicit != "":
		c, ok := b.desc.Column(explicit)
		if !ok {
			return "", NewUnknownColumnError(explicit)
		}
		qual := b.desc.Table()
		if c.Foreign != nil {
			qual = c.Foreign.Table
		}
		return qual + "." + c.Name, nil
	}
	return "", nil
}

// OrderByClause renders the ORDER BY expression for a single column name,
// optionally prefixed `+` or `-` for an explicit ASC/DESC suffix.
func (b *Builder) OrderByClause(spec string) (string, error) {
	if spec == "" {
		return "", nil
	}
	dir := ""
	switch spec[0] {
	case '+':
		spec, dir = spec[1:], " ASC"
	case '-':
		spec, dir = spec[1:], " DESC"
	}
	c, ok := b.desc.Column(spec)
	if !ok {
		return "", NewUnknownColumnError(spec)
	}
	qual := b.desc.Table()
	if c.Foreign != nil {
		qual = c.Foreign.Table
	}
	return qual + "." + c.Name + dir, nil
}

// Select assembles a full SELECT statement from the caller arguments.
func (b *Builder) Select(args SelectArgs) (string, error) {
	cols, err := b.ExpandColumns(args.Columns)
	if err != nil {
		return "", err
	}
	where, err := b.WhereClause(args.Where, cols)
	if err != nil {
		return "", err
	}
	group, err := b.GroupByClause(cols, args.GroupBy)
	if err != nil {
		return "", err
	}
	order, err := b.OrderByClause(args.OrderBy)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("SELECT " + b.ColumnList(cols) + " FROM " + b.FromClause(cols))
	if where != "" {
		sb.WriteString(" WHERE " + where)
	}
	if group != "" {
		sb.WriteString(" GROUP BY " + group)
	}
	if order != "" {
		sb.WriteString(" ORDER BY " + order)
	}
	return sb.String(), nil
}

// SelectWhere assembles a SELECT of the requested columns with a
// pre-rendered WHERE clause, as used by refresh against a unique key.
func (b *Builder) SelectWhere(columns []string, where string) (string, error) {
	cols, err := b.ExpandColumns(columns)
	if err != nil {
		return "", err
	}
	return "SELECT " + b.ColumnList(cols) + " FROM " + b.FromClause(cols) + " WHERE " + where, nil
}

// Insert assembles an INSERT statement from the row values. Columns iterate
// in declared order; nullable columns are included only when a value is
// present, and a non-nullable column with no value falls back to its default
// or fails the build.
func (b *Builder) Insert(values map[string]string) (string, error) {
	var names, vals []string
	for i := range b.desc.Columns() {
		c := &b.desc.Columns()[i]
		if !c.Insertable() {
			continue
		}
		v, ok := values[c.Name]
		if !ok {
			if c.Nullable {
				continue
			}
			if !c.HasDefault {
				return "", NewMissingRequiredValueError(c.Name)
			}
			v = c.Default
		}
		names = append(names, c.Name)
		vals = append(vals, b.value(c, v))
	}
	return "INSERT INTO " + b.desc.Table() +
		" (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(vals, ", ") + ")", nil
}

// Update assembles an UPDATE statement whose SET list holds the dirty
// columns in declared order, targeted by a pre-rendered unique-key WHERE.
func (b *Builder) Update(values map[string]string, dirty map[string]struct{}, where string) string {
	var sets []string
	for _, c := range b.desc.Columns() {
		if _, ok := dirty[c.Name]; !ok {
			continue
		}
		sets = append(sets, c.Name+" = "+b.value(&c, values[c.Name]))
	}
	return "UPDATE " + b.desc.Table() + " SET " + strings.Join(sets, ", ") + " WHERE " + where
}

// Delete assembles a DELETE statement targeted by a pre-rendered unique-key
// WHERE.
func (b *Builder) Delete(where string) string {
	return "DELETE FROM " + b.desc.Table() + " WHERE " + where
}

// Count assembles the scalar COUNT statement for the given equality
// arguments.
func (b *Builder) Count(where []Cond) (string, error) {
	w, err := b.WhereClause(where, nil)
	if err != nil {
		return "", err
	}
	q := "SELECT COUNT(*) AS count FROM " + b.desc.Table()
	if w != "" {
		q += " WHERE " + w
	}
	return q, nil
}
