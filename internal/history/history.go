// Package history keeps the capped action log and reverses entries that
// carry an undo descriptor.
package history

import (
	"slices"
	"time"

	"lifequest/internal/model"
)

// DefaultMax is the in-memory retention cap.
const DefaultMax = 200

// Push appends e to log, filling in id and timestamp when absent, and drops
// the oldest entries beyond limit. Undoable always mirrors the presence of an
// undo descriptor.
func Push(log []model.HistoryEntry, e model.HistoryEntry, limit int, newID func() string, now time.Time) []model.HistoryEntry {
	if e.ID == "" && newID != nil {
		e.ID = newID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	e.Undoable = e.Undo != nil
	log = append(log, e)
	return Trim(log, limit)
}

// Trim keeps the newest limit entries. A non-positive limit disables trimming.
func Trim(log []model.HistoryEntry, limit int) []model.HistoryEntry {
	if limit <= 0 || len(log) <= limit {
		return log
	}
	return slices.Clone(log[len(log)-limit:])
}

func Find(log []model.HistoryEntry, id string) int {
	return slices.IndexFunc(log, func(e model.HistoryEntry) bool { return e.ID == id })
}

// LastUndoable returns the index of the newest entry that can still be
// reverted, or -1.
func LastUndoable(log []model.HistoryEntry) int {
	for i := len(log) - 1; i >= 0; i-- {
		e := log[i]
		if e.Undoable && !e.Undone && e.Undo != nil {
			return i
		}
	}
	return -1
}

// Newest returns up to limit entries, newest first. limit <= 0 returns all.
func Newest(log []model.HistoryEntry, limit int) []model.HistoryEntry {
	n := len(log)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.HistoryEntry, 0, n)
	for i := len(log) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, log[i].Clone())
	}
	return out
}
