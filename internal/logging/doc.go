// Package logging assembles structured slog loggers and formatting helpers used
// across flowlist.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so classification and
// deconstruction code can tag log lines with run IDs, batch indexes, and
// folder names. The package also provides a no-op logger for tests and wiring
// code that cannot fail.
package logging
