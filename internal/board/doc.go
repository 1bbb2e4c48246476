// Package board holds the live folder collection and keeps it persisted.
//
// Open loads the snapshot stored under flowlist/folders once; every mutation
// builds a new snapshot through the tasktree functions, writes it back as a
// whole, and only then swaps it in. Readers take a read lock and always see a
// complete snapshot. Mutations that name a folder or node that does not exist
// are no-ops reported through a false return, not errors.
//
// Lock guards the state directory across processes so two CLI invocations
// never interleave snapshot writes.
package board
