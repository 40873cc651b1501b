// Package nebulamap generates Nebula Graph nGQL statements from JSON
// documents driven by a declarative YAML mapping.
//
// A mapping file declares which JSON paths become vertices and edges, how
// property values are typed and transformed, and the global generation
// settings. A Pipeline ties the pieces together: load a mapping, decode a
// document, and emit schema DDL followed by batched data statements.
//
// Basic usage:
//
//	p := nebulamap.New(nebulamap.WithBatchSize(1000))
//	statements, err := p.Run("mapping.yaml", "input.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, stmt := range statements {
//	    fmt.Println(stmt)
//	}
//
// The subpackages can also be used directly: jsonpath resolves paths
// against decoded documents, mapping loads and validates mapping files,
// transform holds the value transform registry, and graph renders the
// statements.
package nebulamap
