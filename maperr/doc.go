// Package maperr defines the structured error type shared by every stage of
// the mapping pipeline.
//
// Errors are categorized by kind (configuration, data extraction, transform,
// schema) and carry the operation that failed plus optional context values.
// All errors support errors.Is and errors.As through the standard wrapping
// conventions, and every pipeline stage short-circuits on the first error it
// encounters.
package maperr
