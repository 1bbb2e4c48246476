// Package tasktree models folders of recursive task nodes.
//
// Every operation takes a Folder value and returns a new one. Only the nodes
// along the path from the folder root to the mutated node are copied; the
// input folder is never modified, so readers holding an older snapshot never
// observe a partial edit.
//
// Node lookups are depth-first, pre-order and match on exact ID. A lookup
// that misses leaves the folder unchanged and is not an error: stale IDs
// are expected after a subtree has been replaced.
package tasktree
