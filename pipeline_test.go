package nebulamap

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulamap/nebulamap/jsonpath"
	"github.com/nebulamap/nebulamap/mapping"
	"github.com/nebulamap/nebulamap/nebula"
	"github.com/nebulamap/nebulamap/transform"
)

const testMapping = `
tags:
  person:
    from: /users
    key: id
    properties:
      - json: /name
        type: STRING
        index: true
      - json: /age
        type: INT
        optional: true

  company:
    from: /companies
    properties:
      - json: /name
        type: STRING

edges:
  works_at:
    from: /employments
    source_tag: person
    target_tag: company
    source_key: person_id
    target_key: company_id
    properties:
      - json: /since
        type: INT64
`

const testDocument = `{
  "users": [
    {"id": "u1", "name": "Ada", "age": 36},
    {"id": "u2", "name": "Grace", "age": null}
  ],
  "companies": [
    {"id": "c1", "name": "Initech"}
  ],
  "employments": [
    {"person_id": "u1", "company_id": "c1", "since": 2019},
    {"person_id": "u2", "company_id": "c1", "since": 2021}
  ]
}`

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "mapping.yaml")
	inputPath := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(mappingPath, []byte(testMapping), 0o644))
	require.NoError(t, os.WriteFile(inputPath, []byte(testDocument), 0o644))
	return mappingPath, inputPath
}

func TestPipelineRun(t *testing.T) {
	mappingPath, inputPath := writeFixtures(t)

	statements, err := New().Run(mappingPath, inputPath)
	require.NoError(t, err)

	// Schema first: two tags, one index, one edge. Then three data
	// statements, vertices before edges.
	require.Len(t, statements, 7)
	assert.True(t, strings.HasPrefix(statements[0], "CREATE TAG IF NOT EXISTS person"))
	assert.Equal(t, "CREATE TAG INDEX IF NOT EXISTS person_name_idx ON person(name);", statements[1])
	assert.True(t, strings.HasPrefix(statements[2], "CREATE TAG IF NOT EXISTS company"))
	assert.True(t, strings.HasPrefix(statements[3], "CREATE EDGE IF NOT EXISTS works_at"))

	assert.Equal(t,
		`INSERT VERTEX person (name, age) VALUES "u1":("Ada", 36), "u2":("Grace", NULL);`,
		statements[4])
	assert.Equal(t, `INSERT VERTEX company (name) VALUES "c1":("Initech");`, statements[5])
	assert.Equal(t,
		`INSERT EDGE works_at (since) VALUES "u1" -> "c1":(2019), "u2" -> "c1":(2021);`,
		statements[6])
}

func TestPipelineSchemaOnly(t *testing.T) {
	mappingPath, inputPath := writeFixtures(t)

	statements, err := New(WithSchemaOnly(true)).Run(mappingPath, inputPath)
	require.NoError(t, err)

	require.Len(t, statements, 4)
	for _, stmt := range statements {
		assert.True(t, strings.HasPrefix(stmt, "CREATE "), "unexpected statement %q", stmt)
	}
}

func TestPipelineBatchSize(t *testing.T) {
	mappingPath, inputPath := writeFixtures(t)

	statements, err := New(WithBatchSize(1), WithSchemaOnly(false)).Run(mappingPath, inputPath)
	require.NoError(t, err)

	var inserts int
	for _, stmt := range statements {
		if strings.HasPrefix(stmt, "INSERT ") {
			inserts++
		}
	}
	// One statement per record: two persons, one company, two edges.
	assert.Equal(t, 5, inserts)
}

func TestPipelineIndexes(t *testing.T) {
	m, err := mapping.ParseBytes([]byte(testMapping))
	require.NoError(t, err)

	statements, err := New().Indexes(m)
	require.NoError(t, err)

	// Only the person name property is marked indexable.
	require.Len(t, statements, 1)
	assert.Equal(t, "CREATE TAG INDEX IF NOT EXISTS person_name_idx ON person(name);", statements[0])
}

func TestPipelineCleanup(t *testing.T) {
	m, err := mapping.ParseBytes([]byte(testMapping))
	require.NoError(t, err)

	statements := New().Cleanup(m)
	require.NotEmpty(t, statements)
	assert.Contains(t, statements, "DROP TAG IF EXISTS person;")
	assert.Contains(t, statements, "DROP EDGE IF EXISTS works_at;")
	assert.Equal(t, "DROP TAG INDEX IF EXISTS person_name_idx;", statements[0])
}

func TestPipelineCustomTransform(t *testing.T) {
	registry := transform.NewRegistry()
	registry.Register("shout", func(v transform.Value, _ map[string]string) (transform.Value, error) {
		s, _ := v.Raw.(string)
		return transform.Value{Raw: strings.ToUpper(s), Target: nebula.TypeString}, nil
	})

	p := New(
		WithTransforms(registry),
		WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
	)
	assert.Same(t, registry, p.Transforms())

	m, err := mapping.ParseBytes([]byte(`
tags:
  person:
    from: /users
    key: id
    properties:
      - json: /name
        type: STRING
        transform: shout
`))
	require.NoError(t, err)

	doc, err := jsonpath.Parse([]byte(`{"users": [{"id": "u1", "name": "ada"}]}`))
	require.NoError(t, err)

	statements, err := p.Generate(m, doc)
	require.NoError(t, err)
	assert.Contains(t, statements, `INSERT VERTEX person (name) VALUES "u1":("ADA");`)
}

func TestPipelineErrorsSurface(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "mapping.yaml")
	require.NoError(t, os.WriteFile(mappingPath, []byte("tags:\n  person:\n    key: id\n"), 0o644))

	_, err := New().Run(mappingPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing 'from' field")
}
