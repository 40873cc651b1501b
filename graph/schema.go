package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nebulamap/nebulamap/maperr"
	"github.com/nebulamap/nebulamap/mapping"
	"github.com/nebulamap/nebulamap/nebula"
)

// SchemaProperty is a property with its declared type resolved to schema
// DDL form.
type SchemaProperty struct {
	Name         string
	Type         string
	Nullable     bool
	DefaultValue *string
	Indexable    bool
	FixedLength  int
}

// SchemaElement is a tag or edge definition ready for DDL emission.
type SchemaElement struct {
	Name       string
	IsEdge     bool
	Properties []SchemaProperty
}

// SchemaManager generates schema DDL statements from a mapping.
type SchemaManager struct{}

// NewSchemaManager creates a SchemaManager.
func NewSchemaManager() *SchemaManager {
	return &SchemaManager{}
}

// GenerateSchemaStatements emits CREATE TAG statements for every vertex
// mapping in declaration order, each followed by index statements for its
// indexable properties, then CREATE EDGE statements likewise. Identifier or
// type problems abort generation.
func (s *SchemaManager) GenerateSchemaStatements(m *mapping.GraphMapping) ([]string, error) {
	var statements []string

	for i := range m.Vertices {
		v := &m.Vertices[i]
		element, err := s.buildElement(v.TagName, false, v.Properties, &m.Settings)
		if err != nil {
			return nil, err
		}
		statements = append(statements, renderCreate(element))
		statements = append(statements, renderElementIndexes(element)...)
	}

	for i := range m.Edges {
		e := &m.Edges[i]
		element, err := s.buildElement(e.EdgeName, true, e.Properties, &m.Settings)
		if err != nil {
			return nil, err
		}
		statements = append(statements, renderCreate(element))
		statements = append(statements, renderElementIndexes(element)...)
	}

	return statements, nil
}

// GenerateIndexStatements emits index statements for every indexable
// property of every tag and edge whose type is numeric or string.
func (s *SchemaManager) GenerateIndexStatements(m *mapping.GraphMapping) ([]string, error) {
	var statements []string

	emit := func(name string, isEdge bool, props []mapping.Property) error {
		element, err := s.buildElement(name, isEdge, props, &m.Settings)
		if err != nil {
			return err
		}
		for i := range element.Properties {
			p := &element.Properties[i]
			if !p.Indexable {
				continue
			}
			if !nebula.IsNumericType(p.Type) && !nebula.IsStringType(p.Type) {
				continue
			}
			statements = append(statements, renderIndex(element, p, true))
		}
		return nil
	}

	for i := range m.Vertices {
		if err := emit(m.Vertices[i].TagName, false, m.Vertices[i].Properties); err != nil {
			return nil, err
		}
	}
	for i := range m.Edges {
		if err := emit(m.Edges[i].EdgeName, true, m.Edges[i].Properties); err != nil {
			return nil, err
		}
	}
	return statements, nil
}

// GenerateCleanupStatements emits DROP statements undoing the schema:
// indexes first, then tags and edges.
func (s *SchemaManager) GenerateCleanupStatements(m *mapping.GraphMapping) []string {
	var statements []string

	for i := range m.Vertices {
		v := &m.Vertices[i]
		for j := range v.Properties {
			statements = append(statements, fmt.Sprintf("DROP TAG INDEX IF EXISTS %s;",
				nebula.IndexName(v.TagName, v.Properties[j].Name)))
		}
	}
	for i := range m.Edges {
		e := &m.Edges[i]
		for j := range e.Properties {
			statements = append(statements, fmt.Sprintf("DROP EDGE INDEX IF EXISTS %s;",
				nebula.IndexName(e.EdgeName, e.Properties[j].Name)))
		}
	}

	for i := range m.Vertices {
		statements = append(statements, fmt.Sprintf("DROP TAG IF EXISTS %s;",
			nebula.QuoteIdentifier(m.Vertices[i].TagName)))
	}
	for i := range m.Edges {
		statements = append(statements, fmt.Sprintf("DROP EDGE IF EXISTS %s;",
			nebula.QuoteIdentifier(m.Edges[i].EdgeName)))
	}

	return statements
}

// buildElement resolves property types and validates identifiers for one
// tag or edge.
func (s *SchemaManager) buildElement(name string, isEdge bool, props []mapping.Property, settings *mapping.Settings) (*SchemaElement, error) {
	if !nebula.ValidIdentifier(name) {
		e := maperr.NewSchemaError("SchemaManager.buildElement",
			fmt.Errorf("%w: invalid schema element name: %s", maperr.ErrInvalidIdentifier, name))
		return nil, e
	}

	element := &SchemaElement{Name: name, IsEdge: isEdge}
	for i := range props {
		p := &props[i]
		if !nebula.ValidIdentifier(p.Name) {
			e := maperr.NewSchemaError("SchemaManager.buildElement",
				fmt.Errorf("%w: invalid property name: %s", maperr.ErrInvalidIdentifier, p.Name))
			return nil, e.WithContext(map[string]any{"element": name})
		}

		converted, err := nebula.ConvertType(p.NebulaType, stringLength(p, settings))
		if err != nil {
			var me *maperr.Error
			if errors.As(err, &me) {
				return nil, me.WithContext(map[string]any{"element": name, "property": p.Name})
			}
			return nil, err
		}

		element.Properties = append(element.Properties, SchemaProperty{
			Name:         p.Name,
			Type:         converted,
			Nullable:     p.Optional,
			DefaultValue: p.DefaultValue,
			Indexable:    p.Indexable,
			FixedLength:  p.MaxLength,
		})
	}
	return element, nil
}

// stringLength picks the declared length for a string property: its own
// max_length when positive, otherwise the mapping-wide setting for plain
// strings. Fixed strings keep their per-type default.
func stringLength(p *mapping.Property, settings *mapping.Settings) int {
	if p.MaxLength > 0 {
		return p.MaxLength
	}
	upper := strings.ToUpper(p.NebulaType)
	if (upper == "STRING" || upper == "VARCHAR") && settings.StringLength > 0 {
		return settings.StringLength
	}
	return 0
}

func renderCreate(element *SchemaElement) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if element.IsEdge {
		b.WriteString("EDGE")
	} else {
		b.WriteString("TAG")
	}
	b.WriteString(" IF NOT EXISTS ")
	b.WriteString(nebula.QuoteIdentifier(element.Name))
	b.WriteString(" (\n")

	for i := range element.Properties {
		p := &element.Properties[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("    ")
		b.WriteString(nebula.QuoteIdentifier(p.Name))
		b.WriteString(" ")
		b.WriteString(p.Type)
		if !p.Nullable {
			b.WriteString(" NOT NULL")
		}
		if p.DefaultValue != nil {
			b.WriteString(" DEFAULT ")
			b.WriteString(*p.DefaultValue)
		}
	}

	b.WriteString("\n) ttl_duration = 0, ttl_col = \"\";")
	return b.String()
}

// renderElementIndexes emits index statements for the indexable properties
// of an element.
func renderElementIndexes(element *SchemaElement) []string {
	var statements []string
	for i := range element.Properties {
		p := &element.Properties[i]
		if !p.Indexable {
			continue
		}
		statements = append(statements, renderIndex(element, p, false))
	}
	return statements
}

// renderIndex emits one CREATE ... INDEX statement. withLength adds the
// string index length suffix when a fixed length is known.
func renderIndex(element *SchemaElement, p *SchemaProperty, withLength bool) string {
	kind := "TAG"
	if element.IsEdge {
		kind = "EDGE"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE %s INDEX IF NOT EXISTS %s ON %s(%s",
		kind,
		nebula.IndexName(element.Name, p.Name),
		nebula.QuoteIdentifier(element.Name),
		nebula.QuoteIdentifier(p.Name))
	if withLength && nebula.IsStringType(p.Type) && p.FixedLength > 0 {
		fmt.Fprintf(&b, "(%d)", p.FixedLength)
	}
	b.WriteString(");")
	return b.String()
}
