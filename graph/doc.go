// Package graph turns a mapping plus a JSON document into nGQL statement
// text.
//
// SchemaManager emits the DDL side: CREATE TAG / CREATE EDGE statements with
// index statements for indexable properties, plus the matching DROP
// statements for cleanup. StatementGenerator emits the data side: batched
// INSERT VERTEX / INSERT EDGE statements, switching to per-record UPSERT
// with key de-duplication for tags that enable dynamic fields.
//
// Both sides share the identifier quoting and type conversion rules of the
// nebula package. Any failure aborts the whole run; there is no
// partial-success mode.
package graph
