package mapping

// Settings are the global knobs of a mapping file.
type Settings struct {
	// StringLength is the declared length applied to string properties that
	// do not carry their own.
	StringLength int

	// ArrayDelimiter is the default delimiter for array-joining transforms.
	ArrayDelimiter string

	// AllowDynamicTags permits tags outside the declared set when dynamic
	// processing is enabled.
	AllowDynamicTags bool
}

// TransformRef names a registered transform plus its parameters, attached
// to a single property.
type TransformRef struct {
	Name   string
	Params map[string]string
}

// TransformRule is one rule of a named transform definition.
type TransformRule struct {
	Name      string
	Type      string
	Condition string
	Value     string
	Field     string
	Mappings  map[string]string
}

// TransformKind classifies named transform definitions.
type TransformKind int

const (
	TransformNone TransformKind = iota
	TransformArrayToBool
	TransformArrayJoin
	TransformCustom
)

// Transform is a named transform definition declared at the top level of a
// mapping file.
type Transform struct {
	Kind          TransformKind
	Rules         []TransformRule
	JoinDelimiter string
}

// Property maps one JSON value onto a target property.
type Property struct {
	// Name is the target property identifier.
	Name string

	// JSONPath selects the source value relative to the enclosing vertex or
	// edge object.
	JSONPath string

	// NebulaType is the declared target type name. It is resolved against
	// the canonical type set during generation, not here.
	NebulaType string

	// Optional marks the property nullable; the default is NOT NULL.
	Optional bool

	// Indexable requests an index statement for this property.
	Indexable bool

	// MaxLength overrides the string length for this property.
	MaxLength int

	// DefaultValue is emitted verbatim as the DEFAULT clause when present.
	DefaultValue *string

	// Transform, when present, is applied to the extracted value before
	// type conversion.
	Transform *TransformRef
}

// DynamicFields configures inference of unmapped JSON keys as extra
// properties.
type DynamicFields struct {
	Enabled bool

	// AllowedTypes restricts inferred types; empty allows all.
	AllowedTypes map[string]struct{}

	// ExcludedProperties are JSON keys never auto-included.
	ExcludedProperties map[string]struct{}
}

// VertexMapping maps JSON objects onto vertices of one tag.
type VertexMapping struct {
	TagName       string
	SourcePath    string
	KeyPath       string
	Properties    []Property
	DynamicFields DynamicFields
}

// Endpoint identifies one end of an edge: the vertex tag and the path that
// yields its key within the edge's source object.
type Endpoint struct {
	Tag     string
	KeyPath string
}

// EdgeMapping maps JSON objects onto edges of one type.
type EdgeMapping struct {
	EdgeName   string
	SourcePath string
	From       Endpoint
	To         Endpoint
	Properties []Property
}

// GraphMapping is the root aggregate: the fully resolved mapping a
// generation run operates on. Immutable once built.
type GraphMapping struct {
	Vertices   []VertexMapping
	Edges      []EdgeMapping
	Transforms map[string]Transform
	Settings   Settings
}
