// Package main hosts the flowlist CLI entrypoint and command graph.
//
// The Cobra-based command tree covers ingesting brain dumps, browsing and
// editing folders, deconstructing tasks, archive export and import, and
// configuration scaffolding. It centralizes configuration resolution, the
// state store, the single-writer lock and logging setup so subcommands can
// focus on output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
