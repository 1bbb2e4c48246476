// Package logs reads the flowlist log file for `flowlist logs`.
//
// Tail returns the last N lines (optionally filtered by a substring such as
// a run id) together with the byte offset to resume from, and can poll for
// appended lines until a deadline or context cancellation.
package logs
