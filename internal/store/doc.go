// Package store persists JSON values under string keys.
//
// KV is the port the rest of flowlist depends on. SQLite is the on-disk
// adapter (modernc.org/sqlite, WAL journal, busy retries); Memory backs tests
// and ephemeral runs. Scoped gives typed access to one namespace.
package store
