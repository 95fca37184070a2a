// Package store persists runs and their clusters in SQLite.
//
// A run is one exclusive pass of the pipeline; its clusters carry the
// grouping result and the review lifecycle. Review decisions are committed
// as they happen, so an aborted session can resume from the remaining
// pending clusters after a process restart.
package store
