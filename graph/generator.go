package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nebulamap/nebulamap/jsonpath"
	"github.com/nebulamap/nebulamap/maperr"
	"github.com/nebulamap/nebulamap/mapping"
	"github.com/nebulamap/nebulamap/nebula"
	"github.com/nebulamap/nebulamap/transform"
)

// DefaultBatchSize is the number of records per INSERT statement when the
// caller does not specify one.
const DefaultBatchSize = 500

// StatementGenerator turns records selected from a JSON document into nGQL
// data statements. It holds no per-run state; one generator may serve
// concurrent runs.
type StatementGenerator struct {
	resolver   *jsonpath.Resolver
	transforms *transform.Registry
}

// NewStatementGenerator creates a StatementGenerator using the given path
// resolver and transform registry.
func NewStatementGenerator(resolver *jsonpath.Resolver, transforms *transform.Registry) *StatementGenerator {
	return &StatementGenerator{resolver: resolver, transforms: transforms}
}

// GenerateBatchStatements emits data statements for every vertex mapping in
// declaration order, then every edge mapping. Plain tags and edges produce
// INSERT statements with at most batchSize value tuples each; tags with
// dynamic fields enabled produce one UPSERT per record, de-duplicated by
// vertex ID. The first error aborts the run.
func (g *StatementGenerator) GenerateBatchStatements(m *mapping.GraphMapping, doc any, batchSize int) ([]string, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var statements []string
	for i := range m.Vertices {
		out, err := g.vertexStatements(&m.Vertices[i], doc, batchSize)
		if err != nil {
			return nil, err
		}
		statements = append(statements, out...)
	}
	for i := range m.Edges {
		out, err := g.edgeStatements(&m.Edges[i], doc, batchSize)
		if err != nil {
			return nil, err
		}
		statements = append(statements, out...)
	}
	return statements, nil
}

func (g *StatementGenerator) vertexStatements(v *mapping.VertexMapping, doc any, batchSize int) ([]string, error) {
	records, err := g.sourceRecords(doc, v.SourcePath, v.TagName)
	if err != nil {
		return nil, err
	}

	if v.DynamicFields.Enabled {
		return g.dynamicVertexStatements(v, records)
	}

	propNames := quotedPropertyNames(v.Properties)
	var statements []string
	var tuples []string

	flush := func() {
		if len(tuples) == 0 {
			return
		}
		statements = append(statements, fmt.Sprintf("INSERT VERTEX %s (%s) VALUES %s;",
			nebula.QuoteIdentifier(v.TagName), propNames, joinValues(tuples)))
		tuples = tuples[:0]
	}

	for _, record := range records {
		id, err := g.recordKey(record, v.KeyPath, v.TagName)
		if err != nil {
			return nil, err
		}
		values, err := g.propertyValues(record, v.Properties, v.TagName)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, fmt.Sprintf("%s:(%s)", id, joinValues(values)))
		if len(tuples) >= batchSize {
			flush()
		}
	}
	flush()
	return statements, nil
}

// dynamicVertexStatements emits one UPSERT per distinct vertex ID. The first
// record seen for an ID wins; later duplicates are dropped. Unmapped JSON
// keys of each record are appended as inferred extra properties in sorted
// key order.
func (g *StatementGenerator) dynamicVertexStatements(v *mapping.VertexMapping, records []map[string]any) ([]string, error) {
	mapped := make(map[string]struct{}, len(v.Properties))
	for i := range v.Properties {
		mapped[strings.TrimPrefix(v.Properties[i].JSONPath, "/")] = struct{}{}
	}
	mapped[strings.TrimPrefix(v.KeyPath, "/")] = struct{}{}

	seen := make(map[string]struct{}, len(records))
	var statements []string

	for _, record := range records {
		id, err := g.recordKey(record, v.KeyPath, v.TagName)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		names := make([]string, 0, len(v.Properties))
		values := make([]string, 0, len(v.Properties))
		for i := range v.Properties {
			names = append(names, nebula.QuoteIdentifier(v.Properties[i].Name))
		}
		vals, err := g.propertyValues(record, v.Properties, v.TagName)
		if err != nil {
			return nil, err
		}
		values = append(values, vals...)

		extraNames, extraValues := inferDynamicProperties(record, mapped, &v.DynamicFields)
		names = append(names, extraNames...)
		values = append(values, extraValues...)

		statements = append(statements, fmt.Sprintf("UPSERT VERTEX %s %s (%s) VALUES (%s);",
			nebula.QuoteIdentifier(v.TagName), id, joinValues(names), joinValues(values)))
	}
	return statements, nil
}

func (g *StatementGenerator) edgeStatements(e *mapping.EdgeMapping, doc any, batchSize int) ([]string, error) {
	records, err := g.sourceRecords(doc, e.SourcePath, e.EdgeName)
	if err != nil {
		return nil, err
	}

	propNames := quotedPropertyNames(e.Properties)
	var statements []string
	var tuples []string

	flush := func() {
		if len(tuples) == 0 {
			return
		}
		statements = append(statements, fmt.Sprintf("INSERT EDGE %s (%s) VALUES %s;",
			nebula.QuoteIdentifier(e.EdgeName), propNames, joinValues(tuples)))
		tuples = tuples[:0]
	}

	for _, record := range records {
		from, err := g.recordKey(record, e.From.KeyPath, e.EdgeName)
		if err != nil {
			return nil, err
		}
		to, err := g.recordKey(record, e.To.KeyPath, e.EdgeName)
		if err != nil {
			return nil, err
		}
		values, err := g.propertyValues(record, e.Properties, e.EdgeName)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, fmt.Sprintf("%s -> %s:(%s)", from, to, joinValues(values)))
		if len(tuples) >= batchSize {
			flush()
		}
	}
	flush()
	return statements, nil
}

// sourceRecords resolves the source path and normalizes the result to a
// record slice: an array yields its object elements, a single object yields
// itself.
func (g *StatementGenerator) sourceRecords(doc any, path, element string) ([]map[string]any, error) {
	resolved, err := g.resolver.Resolve(doc, path)
	if err != nil {
		return nil, withElement(err, element)
	}

	switch src := resolved.(type) {
	case []any:
		records := make([]map[string]any, 0, len(src))
		for i, entry := range src {
			obj, ok := entry.(map[string]any)
			if !ok {
				e := maperr.NewDataError("StatementGenerator.sourceRecords",
					fmt.Errorf("%w: expected object record at index %d", maperr.ErrTypeMismatch, i))
				return nil, e.WithContext(map[string]any{"element": element, "path": path})
			}
			records = append(records, obj)
		}
		return records, nil
	case map[string]any:
		return []map[string]any{src}, nil
	default:
		e := maperr.NewDataError("StatementGenerator.sourceRecords",
			fmt.Errorf("%w: source path must address an object or array", maperr.ErrTypeMismatch))
		return nil, e.WithContext(map[string]any{"element": element, "path": path})
	}
}

// recordKey extracts and quotes the vertex ID addressed by keyPath within a
// record. String keys pass through verbatim, numbers become decimal text;
// anything else is fatal.
func (g *StatementGenerator) recordKey(record map[string]any, keyPath, element string) (string, error) {
	raw, err := g.resolver.Resolve(record, keyPath)
	if err != nil {
		return "", withElement(err, element)
	}

	switch key := raw.(type) {
	case string:
		return `"` + key + `"`, nil
	case json.Number:
		return `"` + key.String() + `"`, nil
	case nil:
		e := maperr.NewDataError("StatementGenerator.recordKey",
			fmt.Errorf("%w: vertex ID cannot be null", maperr.ErrNullKey))
		return "", e.WithContext(map[string]any{"element": element, "path": keyPath})
	default:
		e := maperr.NewDataError("StatementGenerator.recordKey",
			fmt.Errorf("%w: vertex ID must be a string or number", maperr.ErrTypeMismatch))
		return "", e.WithContext(map[string]any{"element": element, "path": keyPath})
	}
}

// propertyValues extracts and formats every declared property of one record
// in declaration order.
func (g *StatementGenerator) propertyValues(record map[string]any, props []mapping.Property, element string) ([]string, error) {
	values := make([]string, 0, len(props))
	for i := range props {
		v, err := g.extractValue(record, &props[i], element)
		if err != nil {
			return nil, err
		}
		formatted, err := FormatValue(v)
		if err != nil {
			return nil, withElement(err, element)
		}
		values = append(values, formatted)
	}
	return values, nil
}

// extractValue resolves one property's path within a record and converts the
// result. Resolution failures abort the run even for optional properties;
// only an explicit JSON null becomes NULL. A configured transform runs
// before type conversion and its output is used verbatim.
func (g *StatementGenerator) extractValue(record map[string]any, p *mapping.Property, element string) (Value, error) {
	raw, err := g.resolver.Resolve(record, p.JSONPath)
	if err != nil {
		return Value{}, withElement(err, element)
	}
	if raw == nil {
		return Value{NebulaType: p.NebulaType, IsNull: true}, nil
	}

	if p.Transform != nil {
		in, err := transformInput(raw)
		if err != nil {
			return Value{}, withElement(err, element)
		}
		out, err := g.transforms.Apply(p.Transform.Name, in, p.Transform.Params)
		if err != nil {
			return Value{}, withElement(err, element)
		}
		return Value{NebulaType: p.NebulaType, Raw: out.Raw}, nil
	}

	converted, err := convertRaw(raw, p)
	if err != nil {
		return Value{}, withElement(err, element)
	}
	return Value{NebulaType: p.NebulaType, Raw: converted}, nil
}

// transformInput builds a transform input value from a decoded JSON scalar.
func transformInput(raw any) (transform.Value, error) {
	switch jsonpath.KindOf(raw) {
	case jsonpath.KindString:
		return transform.Value{Raw: raw.(string), Source: nebula.TypeString}, nil
	case jsonpath.KindInt:
		n, err := raw.(json.Number).Int64()
		if err != nil {
			return transform.Value{}, maperr.NewDataError("graph.transformInput", err)
		}
		return transform.Value{Raw: n, Source: nebula.TypeInt64}, nil
	case jsonpath.KindFloat:
		f, err := numberFloat(raw)
		if err != nil {
			return transform.Value{}, err
		}
		return transform.Value{Raw: f, Source: nebula.TypeDouble}, nil
	case jsonpath.KindBool:
		return transform.Value{Raw: raw.(bool), Source: nebula.TypeBool}, nil
	default:
		return transform.Value{}, maperr.NewDataError("graph.transformInput",
			fmt.Errorf("%w: transforms accept scalar values only, got %s",
				maperr.ErrTypeMismatch, jsonpath.KindOf(raw)))
	}
}

// convertRaw converts an untransformed JSON scalar to the payload expected
// by the declared property type. Unknown type names fall back to string
// rendering; unresolvable declared types fail at schema generation instead.
func convertRaw(raw any, p *mapping.Property) (any, error) {
	t, _ := nebula.ParseType(p.NebulaType)
	switch t {
	case nebula.TypeInt64:
		return rawInt64(raw, p)
	case nebula.TypeDouble:
		return rawFloat64(raw, p)
	case nebula.TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, conversionErr(p, "expected a boolean value")
		}
		return b, nil
	default:
		return rawString(raw)
	}
}

func rawInt64(raw any, p *mapping.Property) (any, error) {
	n, ok := raw.(json.Number)
	if !ok {
		return nil, conversionErr(p, "expected a numeric value")
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, conversionErr(p, "expected a numeric value")
	}
	return int64(f), nil
}

func rawFloat64(raw any, p *mapping.Property) (any, error) {
	n, ok := raw.(json.Number)
	if !ok {
		return nil, conversionErr(p, "expected a numeric value")
	}
	f, err := n.Float64()
	if err != nil {
		return nil, conversionErr(p, "expected a numeric value")
	}
	return f, nil
}

func rawString(raw any) (any, error) {
	switch s := raw.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case bool:
		if s {
			return "true", nil
		}
		return "false", nil
	default:
		return nil, maperr.NewDataError("graph.convertRaw",
			fmt.Errorf("%w: cannot render %s as a string property",
				maperr.ErrTypeMismatch, jsonpath.KindOf(raw)))
	}
}

// inferDynamicProperties collects the unmapped scalar keys of a record as
// extra properties, sorted by key. Objects, arrays and excluded or
// disallowed kinds are skipped silently; non-bare key names are emitted
// backtick-quoted.
func inferDynamicProperties(record map[string]any, mapped map[string]struct{}, df *mapping.DynamicFields) ([]string, []string) {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var names, values []string
	for _, k := range keys {
		if _, isMapped := mapped[k]; isMapped {
			continue
		}
		if _, excluded := df.ExcludedProperties[k]; excluded {
			continue
		}

		raw := record[k]
		inferred, v, ok := inferScalar(raw)
		if !ok {
			continue
		}
		if len(df.AllowedTypes) > 0 {
			if _, allowed := df.AllowedTypes[inferred]; !allowed {
				continue
			}
		}
		formatted, err := FormatValue(v)
		if err != nil {
			continue
		}
		names = append(names, nebula.QuoteIdentifier(k))
		values = append(values, formatted)
	}
	return names, values
}

// inferScalar maps a decoded JSON scalar to its inferred type name and a
// formattable value.
func inferScalar(raw any) (string, Value, bool) {
	switch jsonpath.KindOf(raw) {
	case jsonpath.KindBool:
		return "BOOL", Value{Raw: raw.(bool)}, true
	case jsonpath.KindInt:
		n, err := raw.(json.Number).Int64()
		if err != nil {
			return "", Value{}, false
		}
		return "INT64", Value{Raw: n}, true
	case jsonpath.KindFloat:
		f, err := numberFloat(raw)
		if err != nil {
			return "", Value{}, false
		}
		return "DOUBLE", Value{Raw: f}, true
	case jsonpath.KindString:
		return "STRING", Value{Raw: raw.(string)}, true
	default:
		return "", Value{}, false
	}
}

func numberFloat(raw any) (float64, error) {
	n, ok := raw.(json.Number)
	if !ok {
		if f, isFloat := raw.(float64); isFloat {
			return f, nil
		}
		return 0, maperr.NewDataError("graph.numberFloat",
			fmt.Errorf("%w: expected a numeric value", maperr.ErrTypeMismatch))
	}
	return n.Float64()
}

func quotedPropertyNames(props []mapping.Property) string {
	names := make([]string, 0, len(props))
	for i := range props {
		names = append(names, nebula.QuoteIdentifier(props[i].Name))
	}
	return joinValues(names)
}

func conversionErr(p *mapping.Property, msg string) error {
	e := maperr.NewDataError("graph.convertRaw",
		fmt.Errorf("%w: %s", maperr.ErrTypeMismatch, msg))
	return e.WithContext(map[string]any{"property": p.Name, "path": p.JSONPath})
}

// withElement tags an error with the mapping element being processed when it
// is a pipeline error.
func withElement(err error, element string) error {
	var me *maperr.Error
	if errors.As(err, &me) {
		return me.WithContext(map[string]any{"element": element})
	}
	return err
}
