package sqlgen

import (
	"strings"
)

// UniqueKeyWhere resolves the WHERE clause that safely identifies one row.
// Unique-key groups are tried in declared order; a group qualifies only when
// every member has a present value and none is dirty, since a dirty key
// column cannot identify the pre-update row. The optional extra column list
// appends the join conditions of foreign and special columns for cross-table
// statements.
func (b *Builder) UniqueKeyWhere(values map[string]string, dirty map[string]struct{}, extra []string) (string, error) {
	var terms []string
	for _, group := range b.desc.UniqueKeys() {
		usable := true
		for _, name := range group {
			if _, ok := values[name]; !ok {
				usable = false
				break
			}
			if _, isDirty := dirty[name]; isDirty {
				usable = false
				break
			}
		}
		if !usable {
			continue
		}
		for _, name := range group {
			c, _ := b.desc.Column(name)
			terms = append(terms, b.whereTerm(c, values[name]))
		}
		break
	}
	if len(terms) == 0 {
		return "", NewNoUsableUniqueKeyError(b.desc.Table())
	}
	for _, name := range extra {
		c, ok := b.desc.Column(name)
		if !ok {
			return "", NewUnknownColumnError(name)
		}
		switch {
		case c.Foreign != nil:
			terms = append(terms, b.foreignTerm(c.Foreign))
		case c.Special != nil && c.Special.Where != "":
			terms = append(terms, c.Special.Where)
		}
	}
	return strings.Join(terms, " AND "), nil
}
