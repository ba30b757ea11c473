package world

import (
	"context"

	"lifequest/internal/history"
)

// UndoHistoryItem reverts one history entry. Combo, treasure-map progress
// and unlocked achievements stay as they are; only the fields captured in
// the entry's undo descriptor are restored.
func (e *Engine) UndoHistoryItem(ctx context.Context, entryID string) (history.Outcome, error) {
	return e.undo(ctx, "undo", func(tx *txn, opts history.Options) (history.Outcome, error) {
		return history.Undo(tx.s, entryID, opts)
	})
}

// UndoLastAction reverts the newest entry that can still be undone.
func (e *Engine) UndoLastAction(ctx context.Context) (history.Outcome, error) {
	return e.undo(ctx, "undo_last", func(tx *txn, opts history.Options) (history.Outcome, error) {
		return history.UndoLast(tx.s, opts)
	})
}

func (e *Engine) undo(ctx context.Context, op string, fn func(*txn, history.Options) (history.Outcome, error)) (history.Outcome, error) {
	var out history.Outcome
	_, err := e.update(ctx, op, func(tx *txn) error {
		var err error
		out, err = fn(tx, history.Options{
			Limits: e.settings.Limits,
			Max:    e.settings.HistoryMax,
			Now:    tx.now,
			NewID:  e.newID,
		})
		return err
	})
	if err != nil {
		e.log.Info("undo rejected", "op", op, "error", err)
		return history.Outcome{}, err
	}
	e.log.Info("undo applied",
		"entry_id", out.Reverted.ID,
		"entry_type", out.Reverted.Type,
		"restored", out.Restored,
	)
	return out, nil
}
