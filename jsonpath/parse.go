package jsonpath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Parse decodes a JSON document into the any-typed tree the resolver
// operates on. Numbers decode as json.Number so integers and floats remain
// distinguishable.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return doc, nil
}

// ParseFile reads and decodes a JSON document from disk.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return Parse(data)
}
