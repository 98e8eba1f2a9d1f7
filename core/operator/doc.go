// Package operator provides the stage/commit write facade over a
// server's local store.
//
// Feature stores translate remote payloads into prepared Records. A
// Record is pure until executed: staging never touches the database.
// Records become durable only through Execute (immediate single-category
// writes) or BatchRecords (one atomic commit over records from many
// categories). Partial commits do not occur; the wrapping transaction
// rolls back on the first failing record.
package operator
