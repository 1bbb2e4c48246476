// Package services defines shared utilities consumed by the classification
// and deconstruction clients.
//
// Context helpers stamp run IDs, batch indexes, folder names, and
// correlation identifiers so log lines emitted deep inside a request can be
// tied back to the ingest run or CLI command that started it. The llm
// subpackage holds the completion client both prompt kinds share.
package services
