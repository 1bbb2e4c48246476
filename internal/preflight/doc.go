// Package preflight provides readiness checks for the directories, state
// database and completion service that flowlist depends on.
//
// The "flowlist doctor" command runs RunAll and prints each Result. Ingest
// and deconstruct commands call individual checks before doing work that
// would otherwise fail halfway through.
package preflight
