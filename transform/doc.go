// Package transform converts extracted scalar values before they are typed
// and formatted into statements.
//
// A Registry maps transform names to functions. NewRegistry pre-populates
// the five built-ins (time_format, price_normalize, string_normalize,
// array_join, to_boolean) and callers may register their own. Registration
// must complete before concurrent lookups begin; the registry is treated as
// read-only once generation starts.
package transform
