package maperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common pipeline failure conditions.
// These can be matched with errors.Is() regardless of how deeply wrapped
// they are.
var (
	// ErrNotFound indicates a JSON path segment did not resolve to a value.
	ErrNotFound = errors.New("value not found")

	// ErrTypeMismatch indicates a path segment was applied to a node of the
	// wrong kind, e.g. a key lookup on an array.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNullKey indicates a vertex or edge key path resolved to null.
	ErrNullKey = errors.New("key cannot be null")

	// ErrTransformNotFound indicates the requested transform name is not in
	// the registry.
	ErrTransformNotFound = errors.New("transform not found")

	// ErrUnsupportedType indicates a declared property type does not resolve
	// to a known Nebula Graph type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidIdentifier indicates a tag, edge or property name violates
	// the identifier rules.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// Error kinds categorize errors by pipeline stage.
const (
	// KindConfig represents malformed mapping definitions: missing required
	// fields, invalid identifiers, bad paths.
	KindConfig = "config"

	// KindData represents extraction failures against the input document:
	// unresolvable paths, null keys, conversion failures.
	KindData = "data"

	// KindTransform represents transform lookup or application failures.
	KindTransform = "transform"

	// KindSchema represents schema generation failures: invalid identifiers,
	// unsupported types, oversized string lengths.
	KindSchema = "schema"
)

// Error is the structured error type used across the mapping pipeline.
// It wraps an underlying error with the operation that failed, the error
// kind, and optional context values (source paths, element names).
//
// Error implements the error interface and supports unwrapping, making it
// compatible with errors.Is() and errors.As().
type Error struct {
	// Op is the operation that failed (e.g. "Resolver.Resolve",
	// "StatementGenerator.VertexID").
	Op string

	// Kind categorizes the error (KindConfig, KindData, ...).
	Kind string

	// Err is the underlying error.
	Err error

	// Context carries additional debugging values such as the JSON path or
	// the mapping element being processed (optional).
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("nebulamap: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("nebulamap: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("nebulamap: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error so errors.Is() and errors.As() work
// through the wrapper.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches either another *Error with the same Kind (and Op, when the
// target specifies one) or delegates to the wrapped error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}
	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with the provided context values
// merged in. The copy carries its own context map so derived errors never
// mutate the receiver.
func (e *Error) WithContext(ctx map[string]any) *Error {
	out := *e
	out.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		out.Context[k] = v
	}
	for k, v := range ctx {
		out.Context[k] = v
	}
	return &out
}

// NewConfigError creates a new Error with KindConfig.
func NewConfigError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfig, Err: err}
}

// NewDataError creates a new Error with KindData.
func NewDataError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindData, Err: err}
}

// NewTransformError creates a new Error with KindTransform.
func NewTransformError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindTransform, Err: err}
}

// NewSchemaError creates a new Error with KindSchema.
func NewSchemaError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindSchema, Err: err}
}

// KindOf reports the kind of err if it is (or wraps) a *Error, and ""
// otherwise. The CLI uses this to label diagnostics.
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
