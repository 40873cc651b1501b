package nebulamap

import (
	"log/slog"

	"github.com/nebulamap/nebulamap/graph"
	"github.com/nebulamap/nebulamap/jsonpath"
	"github.com/nebulamap/nebulamap/mapping"
	"github.com/nebulamap/nebulamap/transform"
)

// Pipeline is the top-level statement generation facade. It wires a path
// resolver, a transform registry, a schema manager and a statement
// generator together, and renders complete statement sequences from a
// mapping plus a document.
//
// A Pipeline is safe for concurrent use; all per-run state lives on the
// stack of Generate.
type Pipeline struct {
	logger     *slog.Logger
	resolver   *jsonpath.Resolver
	transforms *transform.Registry
	schema     *graph.SchemaManager
	generator  *graph.StatementGenerator
	batchSize  int
	schemaOnly bool
}

// New creates a Pipeline with the provided options.
func New(opts ...Option) *Pipeline {
	c := newConfig(opts)
	return &Pipeline{
		logger:     c.logger,
		resolver:   c.resolver,
		transforms: c.transforms,
		schema:     graph.NewSchemaManager(),
		generator:  graph.NewStatementGenerator(c.resolver, c.transforms),
		batchSize:  c.batchSize,
		schemaOnly: c.schemaOnly,
	}
}

// Transforms returns the pipeline's transform registry so callers can
// register custom transforms before running.
func (p *Pipeline) Transforms() *transform.Registry {
	return p.transforms
}

// Run loads a mapping file and a JSON document from disk and generates the
// full statement sequence.
func (p *Pipeline) Run(mappingPath, inputPath string) ([]string, error) {
	m, err := mapping.Load(mappingPath)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("mapping loaded",
		"path", mappingPath,
		"vertices", len(m.Vertices),
		"edges", len(m.Edges))

	doc, err := jsonpath.ParseFile(inputPath)
	if err != nil {
		return nil, err
	}

	return p.Generate(m, doc)
}

// Generate renders the statement sequence for one mapping and one document:
// schema DDL first, then data statements unless the pipeline is schema-only.
func (p *Pipeline) Generate(m *mapping.GraphMapping, doc any) ([]string, error) {
	statements, err := p.schema.GenerateSchemaStatements(m)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("schema statements generated", "count", len(statements))

	if p.schemaOnly {
		return statements, nil
	}

	data, err := p.generator.GenerateBatchStatements(m, doc, p.batchSize)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("data statements generated", "count", len(data))

	return append(statements, data...), nil
}

// Indexes renders the index statements for the mapping's indexable
// properties, with string index lengths where a fixed length is known.
func (p *Pipeline) Indexes(m *mapping.GraphMapping) ([]string, error) {
	return p.schema.GenerateIndexStatements(m)
}

// Cleanup renders the DROP statements undoing the mapping's schema.
func (p *Pipeline) Cleanup(m *mapping.GraphMapping) []string {
	return p.schema.GenerateCleanupStatements(m)
}
