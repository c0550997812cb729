// Package dispatchlog persists notification delivery attempts to SQLite.
// The request store itself is memory only; the dispatch log is the audit
// trail that survives restarts, answering what was sent where and what
// was skipped or dropped.
package dispatchlog
