// Package orchestrator runs classification batches in fixed-size concurrent
// groups and folds the results into a folder collection.
//
// Every batch in a group sees the bucket names known when the group started.
// The group is joined before any result is applied, results are folded in
// batch-index order, and a snapshot is published after each group. A failed
// batch stops the run once its group has settled; earlier groups stay
// published.
package orchestrator
