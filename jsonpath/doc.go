// Package jsonpath resolves slash-delimited paths against decoded JSON
// documents.
//
// Paths use "/" between object keys and a bracketed "[n]" segment for array
// indexing. The index form is recognized anywhere in the path, including
// glued to the preceding key ("items[0]/name"). A leading slash is optional.
//
// Documents are the any-typed trees produced by Parse, which decodes with
// json.Number so the integer/float distinction of the source survives into
// statement generation.
//
// Path strings are split into segments once and memoized in a thread-safe
// cache owned by the Resolver, so the same mapping paths can be applied to
// many documents without re-parsing. The cache supports concurrent lookups
// from parallel generation runs.
package jsonpath
