// Package core provides the query engine behind every table view.
//
// This package has no UI dependencies. It can be driven by the web handlers,
// the tablectl CLI, or tests without modification.
//
// # Architecture
//
//   - Schema: a static, per-entity table of fields. Each field knows how to
//     render its value and how to compare two records. No reflection is used;
//     an unknown field name resolves to the schema's id field for sorting and
//     to "match everything" for filtering.
//   - Collection: owns the authoritative records for one table as an
//     immutable snapshot behind an atomic pointer. Reads never lock. Deletes
//     copy, filter and publish a new snapshot under a single writer lock.
//   - Registry: maps table keys to type-erased [Table] views of collections.
//   - Service: the entry point for transports. Resolves table keys, logs,
//     records metrics and traces, and keeps the in-memory audit log.
//
// # Query Flow
//
//  1. Build a predicate from the [FilterSpec] (case-insensitive substring)
//  2. Keep matching records in collection order
//  3. Stable-sort by the [SortSpec] comparator (reversed for descending)
//  4. Slice out the requested page; an out-of-range page is empty, not an error
//  5. Report TotalItems as the post-filter count
//
// # Selection Modes
//
// Bulk deletes target either an explicit id set ([SelectByIDs]) or every
// record matching the filter the caller is currently viewing
// ([SelectByFilter]). A filter with a blank search matches everything, so
// deleting by it clears the table. Transports are expected to confirm that
// intent first; see [Service.Preview].
//
// # Error Handling
//
// Precondition violations surface as sentinel errors ([table.ErrInvalidPage],
// [ErrUnknownTable], [ErrInvalidSelection], [ErrInvalidID]). Deleting ids that
// do not exist is never an error. Technical errors are mapped to
// user-friendly messages using [MapError].
package core
