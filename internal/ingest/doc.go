// Package ingest turns raw pasted or file input into deduplicated task lines
// and fixed-size batches for classification.
package ingest
