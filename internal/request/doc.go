// Package request owns disbursement request records and their lifecycle.
//
// The Store is the single source of truth: an in-memory, mutex-serialized
// collection keyed by generated id. All mutations go through Create, Update,
// and Delete, which validate their inputs and return records by value so no
// caller ever holds a writable reference into the store. Update applies
// partial merges and reports whether the status actually changed value, so
// callers can decide whether a status-change notification is warranted.
//
// Records are transient; the process owns them for its lifetime and nothing
// is persisted. Treat this package as the authority on request semantics.
package request
