// Package nebula defines the closed Nebula Graph scalar type system and the
// identifier rules shared by schema generation and statement generation.
//
// Type is a closed enumeration so that value formatting and type conversion
// can switch exhaustively instead of comparing strings. Declared type names
// from mapping files are resolved case-insensitively through ParseType and
// ConvertType, which also apply the aliasing table (INT -> INT64,
// FLOAT -> DOUBLE, ...) and the string-length rules.
package nebula
