// Package history records upload runs and the items they touched in a local
// SQLite database.
//
// The record is purely informational: a failed history write degrades to a
// logged warning and never aborts a batch. It exists so long runs are
// auditable after the fact and so an interrupted batch can be inspected
// before re-running.
package history
