package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlDescriptor mirrors the on-disk descriptor document.
type yamlDescriptor struct {
	Entity    string                       `yaml:"entity"`
	Table     string                       `yaml:"table"`
	Columns   []yamlColumn                 `yaml:"columns"`
	Unique    [][]string                   `yaml:"unique"`
	Relations map[string]map[string]string `yaml:"relations"`
}

type yamlColumn struct {
	Name          string   `yaml:"name"`
	Immutable     bool     `yaml:"immutable"`
	AutoIncrement bool     `yaml:"autoincrement"`
	Nullable      bool     `yaml:"nullable"`
	Quoted        bool     `yaml:"quoted"`
	Default       *string  `yaml:"default"`
	Foreign       *Foreign `yaml:"foreign"`
	Special       *Special `yaml:"special"`
}

// LoadYAML parses a YAML descriptor document and builds it. The document
// names the entity, an optional table (derived from the entity name when
// absent), the ordered column list, unique-key groups and relations:
//
//	entity: Recording
//	columns:
//	  - name: id
//	    immutable: true
//	    autoincrement: true
//	    default: NULL
//	  - name: title
//	    quoted: true
//	unique:
//	  - [id]
func LoadYAML(data []byte) (*Descriptor, error) {
	var doc yamlDescriptor
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewConfigurationError(doc.Entity, fmt.Errorf("parse descriptor: %w", err))
	}
	b := New(doc.Entity).Table(doc.Table)
	for _, yc := range doc.Columns {
		c := Column{
			Name:          yc.Name,
			Immutable:     yc.Immutable,
			AutoIncrement: yc.AutoIncrement,
			Nullable:      yc.Nullable,
			Quoted:        yc.Quoted,
			Foreign:       yc.Foreign,
			Special:       yc.Special,
		}
		// Foreign and special columns are immutable whether the document
		// says so or not.
		if c.Foreign != nil || c.Special != nil {
			c.Immutable = true
		}
		if yc.Default != nil {
			c.HasDefault = true
			c.Default = *yc.Default
		}
		b.Columns(c)
	}
	for _, group := range doc.Unique {
		b.Unique(group...)
	}
	for entity, mapping := range doc.Relations {
		b.Relation(entity, mapping)
	}
	return b.Build()
}
