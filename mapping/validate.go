package mapping

import (
	"fmt"
	"strings"

	"github.com/nebulamap/nebulamap/maperr"
	"github.com/nebulamap/nebulamap/nebula"
)

// validate runs the structural checks applied when a mapping is built.
// Declared type names are deliberately not resolved here; unresolvable
// types surface during schema and statement generation.
func validate(m *GraphMapping) error {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		if err := validateSourcePath(v.SourcePath, v.TagName); err != nil {
			return err
		}
		if err := validateProperties(v.Properties, v.TagName); err != nil {
			return err
		}
		if err := validateDynamicFields(&v.DynamicFields, v.TagName); err != nil {
			return err
		}
	}

	for i := range m.Edges {
		e := &m.Edges[i]
		if err := validateSourcePath(e.SourcePath, e.EdgeName); err != nil {
			return err
		}
		if err := validateEndpoint(&e.From, "source", e.EdgeName); err != nil {
			return err
		}
		if err := validateEndpoint(&e.To, "target", e.EdgeName); err != nil {
			return err
		}
		if err := validateProperties(e.Properties, e.EdgeName); err != nil {
			return err
		}
	}
	return nil
}

func validateSourcePath(path, element string) error {
	if path == "" {
		return configErr(element, "source path cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return configErr(element, fmt.Sprintf("invalid source path: %s", path))
	}
	if !balancedBrackets(path) {
		return configErr(element, fmt.Sprintf("invalid source path: %s", path))
	}
	return nil
}

func validateProperties(props []Property, element string) error {
	seen := make(map[string]struct{}, len(props))
	for i := range props {
		p := &props[i]
		if _, dup := seen[p.Name]; dup {
			return configErr(element, fmt.Sprintf("duplicate property name: %s", p.Name))
		}
		seen[p.Name] = struct{}{}

		if !nebula.ValidIdentifier(p.Name) {
			return configErr(element,
				fmt.Sprintf("invalid property name: %s", p.Name))
		}
		if p.JSONPath == "" {
			return configErr(element,
				fmt.Sprintf("property %s: path cannot be empty", p.Name))
		}
	}
	return nil
}

func validateDynamicFields(df *DynamicFields, element string) error {
	if !df.Enabled {
		return nil
	}
	for t := range df.AllowedTypes {
		if _, ok := nebula.ParseType(t); !ok {
			return configErr(element, fmt.Sprintf("invalid dynamic field type: %s", t))
		}
	}
	for p := range df.ExcludedProperties {
		if !nebula.ValidIdentifier(p) {
			return configErr(element, fmt.Sprintf("invalid excluded property name: %s", p))
		}
	}
	return nil
}

func validateEndpoint(ep *Endpoint, side, element string) error {
	if ep.Tag == "" {
		return configErr(element, fmt.Sprintf("%s tag cannot be empty", side))
	}
	if !nebula.ValidIdentifier(ep.Tag) {
		return configErr(element, fmt.Sprintf("invalid %s tag identifier: %s", side, ep.Tag))
	}
	if ep.KeyPath == "" {
		return configErr(element, fmt.Sprintf("%s key field cannot be empty", side))
	}
	return nil
}

func balancedBrackets(path string) bool {
	depth := 0
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func configErr(element, msg string) error {
	e := maperr.NewConfigError("mapping.validate", fmt.Errorf("%s", msg))
	return e.WithContext(map[string]any{"element": element})
}
