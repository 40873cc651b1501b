package mapping

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nebulamap/nebulamap/maperr"
)

// Wire structures mirror the YAML file layout. Tags, edges and transforms
// are kept as yaml.Node so declaration order survives decoding; Go maps
// would lose it and statement output order must follow the file.
type fileWire struct {
	Settings   *settingsWire `yaml:"settings"`
	Tags       yaml.Node     `yaml:"tags"`
	Edges      yaml.Node     `yaml:"edges"`
	Transforms yaml.Node     `yaml:"transforms"`
}

type settingsWire struct {
	StringLength   int    `yaml:"string_length"`
	ArrayDelimiter string `yaml:"array_delimiter"`
	DynamicTags    bool   `yaml:"dynamic_tags"`
}

type tagWire struct {
	From          string         `yaml:"from"`
	Key           string         `yaml:"key"`
	DynamicFields yaml.Node      `yaml:"dynamic_fields"`
	Properties    []propertyWire `yaml:"properties"`
}

type edgeWire struct {
	From       string         `yaml:"from"`
	SourceTag  string         `yaml:"source_tag"`
	TargetTag  string         `yaml:"target_tag"`
	SourceKey  string         `yaml:"source_key"`
	TargetKey  string         `yaml:"target_key"`
	Properties []propertyWire `yaml:"properties"`
}

type propertyWire struct {
	JSON      string    `yaml:"json"`
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"`
	Optional  bool      `yaml:"optional"`
	Index     bool      `yaml:"index"`
	Indexable bool      `yaml:"indexable"`
	MaxLength int       `yaml:"max_length"`
	Default   *string   `yaml:"default"`
	Transform yaml.Node `yaml:"transform"`
}

type transformRefWire struct {
	Name      string            `yaml:"name"`
	Delimiter string            `yaml:"delimiter"`
	Params    map[string]string `yaml:"params"`
}

type transformDefWire struct {
	Type      string              `yaml:"type"`
	Delimiter string              `yaml:"delimiter"`
	Rules     []transformRuleWire `yaml:"rules"`
}

type transformRuleWire struct {
	Name      string            `yaml:"name"`
	Type      string            `yaml:"type"`
	Condition string            `yaml:"condition"`
	Value     string            `yaml:"value"`
	Field     string            `yaml:"field"`
	Mappings  map[string]string `yaml:"mappings"`
}

// Load reads and builds a mapping from a YAML file.
func Load(path string) (*GraphMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, maperr.NewConfigError("mapping.Load",
			fmt.Errorf("failed to read mapping file: %w", err))
	}
	return ParseBytes(data)
}

// ParseBytes builds and validates a mapping from YAML bytes.
func ParseBytes(data []byte) (*GraphMapping, error) {
	var wire fileWire
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("failed to parse YAML config: %w", err))
	}

	m := &GraphMapping{
		Transforms: make(map[string]Transform),
		Settings: Settings{
			StringLength:   256,
			ArrayDelimiter: ",",
		},
	}

	if wire.Settings != nil {
		if wire.Settings.StringLength > 0 {
			m.Settings.StringLength = wire.Settings.StringLength
		}
		if wire.Settings.ArrayDelimiter != "" {
			m.Settings.ArrayDelimiter = wire.Settings.ArrayDelimiter
		}
		m.Settings.AllowDynamicTags = wire.Settings.DynamicTags
	}

	if err := eachMappingEntry(&wire.Tags, "tags", func(name string, node *yaml.Node) error {
		var tag tagWire
		if err := node.Decode(&tag); err != nil {
			return maperr.NewConfigError("mapping.ParseBytes",
				fmt.Errorf("invalid tag %q: %w", name, err))
		}
		vertex, err := buildVertexMapping(name, &tag)
		if err != nil {
			return err
		}
		m.Vertices = append(m.Vertices, *vertex)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachMappingEntry(&wire.Edges, "edges", func(name string, node *yaml.Node) error {
		var edge edgeWire
		if err := node.Decode(&edge); err != nil {
			return maperr.NewConfigError("mapping.ParseBytes",
				fmt.Errorf("invalid edge %q: %w", name, err))
		}
		em, err := buildEdgeMapping(name, &edge)
		if err != nil {
			return err
		}
		m.Edges = append(m.Edges, *em)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachMappingEntry(&wire.Transforms, "transforms", func(name string, node *yaml.Node) error {
		def, err := buildTransformDef(name, node)
		if err != nil {
			return err
		}
		m.Transforms[name] = *def
		return nil
	}); err != nil {
		return nil, err
	}

	if err := validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// eachMappingEntry walks a YAML mapping node in document order.
func eachMappingEntry(node *yaml.Node, section string, fn func(name string, value *yaml.Node) error) error {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("%q must be a mapping", section))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func buildVertexMapping(name string, tag *tagWire) (*VertexMapping, error) {
	if tag.From == "" {
		return nil, maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("tag %q: missing 'from' field", name))
	}

	vertex := &VertexMapping{
		TagName:    name,
		SourcePath: tag.From,
		KeyPath:    tag.Key,
	}
	if vertex.KeyPath == "" {
		vertex.KeyPath = "id"
	}

	df, err := buildDynamicFields(name, &tag.DynamicFields)
	if err != nil {
		return nil, err
	}
	vertex.DynamicFields = df

	for _, pw := range tag.Properties {
		prop, err := buildProperty(name, &pw)
		if err != nil {
			return nil, err
		}
		vertex.Properties = append(vertex.Properties, *prop)
	}
	return vertex, nil
}

func buildEdgeMapping(name string, edge *edgeWire) (*EdgeMapping, error) {
	if edge.From == "" {
		return nil, maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("edge %q: missing 'from' field", name))
	}
	if edge.SourceTag == "" {
		return nil, maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("edge %q: missing 'source_tag' field", name))
	}
	if edge.TargetTag == "" {
		return nil, maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("edge %q: missing 'target_tag' field", name))
	}

	em := &EdgeMapping{
		EdgeName:   name,
		SourcePath: edge.From,
		From:       Endpoint{Tag: edge.SourceTag, KeyPath: edge.SourceKey},
		To:         Endpoint{Tag: edge.TargetTag, KeyPath: edge.TargetKey},
	}
	if em.From.KeyPath == "" {
		em.From.KeyPath = "id"
	}
	if em.To.KeyPath == "" {
		em.To.KeyPath = "id"
	}

	for _, pw := range edge.Properties {
		prop, err := buildProperty(name, &pw)
		if err != nil {
			return nil, err
		}
		em.Properties = append(em.Properties, *prop)
	}
	return em, nil
}

func buildProperty(owner string, pw *propertyWire) (*Property, error) {
	if pw.JSON == "" {
		return nil, maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("%s: missing 'json' field in property", owner))
	}

	prop := &Property{
		Name:         pw.Name,
		JSONPath:     pw.JSON,
		NebulaType:   pw.Type,
		Optional:     pw.Optional,
		Indexable:    pw.Index || pw.Indexable,
		MaxLength:    pw.MaxLength,
		DefaultValue: pw.Default,
	}
	if prop.Name == "" {
		prop.Name = derivePropertyName(pw.JSON)
	}

	ref, err := buildTransformRef(owner, prop.Name, &pw.Transform)
	if err != nil {
		return nil, err
	}
	prop.Transform = ref

	// A transform implies a value type of its own; properties without either
	// a declared type or a transform are unusable.
	if prop.NebulaType == "" {
		if prop.Transform == nil {
			return nil, maperr.NewConfigError("mapping.ParseBytes",
				fmt.Errorf("%s.%s: missing 'type' field in property", owner, prop.Name))
		}
		prop.NebulaType = "STRING"
	}
	return prop, nil
}

// derivePropertyName turns a JSON path into a usable property identifier
// when the mapping does not name the property explicitly.
func derivePropertyName(path string) string {
	name := strings.TrimLeft(path, "/")
	name = strings.NewReplacer("/", "_", ".", "_", "[", "_", "]", "").Replace(name)
	return name
}

func buildTransformRef(owner, prop string, node *yaml.Node) (*TransformRef, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return &TransformRef{Name: node.Value}, nil
	case yaml.MappingNode:
		var wire transformRefWire
		if err := node.Decode(&wire); err != nil {
			return nil, maperr.NewConfigError("mapping.ParseBytes",
				fmt.Errorf("%s.%s: invalid transform: %w", owner, prop, err))
		}
		if wire.Name == "" {
			return nil, maperr.NewConfigError("mapping.ParseBytes",
				fmt.Errorf("%s.%s: transform requires a 'name'", owner, prop))
		}
		ref := &TransformRef{Name: wire.Name, Params: wire.Params}
		if wire.Delimiter != "" {
			if ref.Params == nil {
				ref.Params = make(map[string]string, 1)
			}
			ref.Params["delimiter"] = wire.Delimiter
		}
		return ref, nil
	default:
		return nil, maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("%s.%s: transform must be a name or a mapping", owner, prop))
	}
}

func buildDynamicFields(owner string, node *yaml.Node) (DynamicFields, error) {
	var df DynamicFields
	switch node.Kind {
	case 0:
		return df, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return df, nil
		}
		if err := node.Decode(&df.Enabled); err != nil {
			return df, maperr.NewConfigError("mapping.ParseBytes",
				fmt.Errorf("tag %q: dynamic_fields must be a boolean or a mapping", owner))
		}
		return df, nil
	case yaml.MappingNode:
		var wire struct {
			Enabled            bool     `yaml:"enabled"`
			AllowedTypes       []string `yaml:"allowed_types"`
			ExcludedProperties []string `yaml:"excluded_properties"`
		}
		if err := node.Decode(&wire); err != nil {
			return df, maperr.NewConfigError("mapping.ParseBytes",
				fmt.Errorf("tag %q: invalid dynamic_fields: %w", owner, err))
		}
		df.Enabled = wire.Enabled
		if len(wire.AllowedTypes) > 0 {
			df.AllowedTypes = make(map[string]struct{}, len(wire.AllowedTypes))
			for _, t := range wire.AllowedTypes {
				df.AllowedTypes[strings.ToUpper(t)] = struct{}{}
			}
		}
		if len(wire.ExcludedProperties) > 0 {
			df.ExcludedProperties = make(map[string]struct{}, len(wire.ExcludedProperties))
			for _, p := range wire.ExcludedProperties {
				df.ExcludedProperties[p] = struct{}{}
			}
		}
		return df, nil
	default:
		return df, maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("tag %q: dynamic_fields must be a boolean or a mapping", owner))
	}
}

func buildTransformDef(name string, node *yaml.Node) (*Transform, error) {
	def := &Transform{JoinDelimiter: ","}

	switch node.Kind {
	case yaml.MappingNode:
		var wire transformDefWire
		if err := node.Decode(&wire); err != nil {
			return nil, maperr.NewConfigError("mapping.ParseBytes",
				fmt.Errorf("transform %q: %w", name, err))
		}
		switch wire.Type {
		case "", "NONE":
			def.Kind = TransformNone
		case "ARRAY_TO_BOOL":
			def.Kind = TransformArrayToBool
		case "ARRAY_JOIN":
			def.Kind = TransformArrayJoin
		default:
			def.Kind = TransformCustom
		}
		if wire.Delimiter != "" {
			def.JoinDelimiter = wire.Delimiter
		}
		for _, rw := range wire.Rules {
			def.Rules = append(def.Rules, TransformRule(rw))
		}
	case yaml.SequenceNode:
		// A bare rule list is a custom transform.
		def.Kind = TransformCustom
		var rules []transformRuleWire
		if err := node.Decode(&rules); err != nil {
			return nil, maperr.NewConfigError("mapping.ParseBytes",
				fmt.Errorf("transform %q: %w", name, err))
		}
		for _, rw := range rules {
			def.Rules = append(def.Rules, TransformRule(rw))
		}
	default:
		return nil, maperr.NewConfigError("mapping.ParseBytes",
			fmt.Errorf("transform %q must be a mapping or a rule list", name))
	}
	return def, nil
}
