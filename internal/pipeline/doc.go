// Package pipeline connects line splitting, batch classification and the
// persisted board into a single ingest run.
package pipeline
