package history

import (
	"fmt"
	"slices"
	"time"

	"lifequest/internal/model"
)

// Handler reverses one kind of undo descriptor against s. It returns a short
// description of what was restored.
type Handler func(s *model.WorldState, d *model.UndoDescriptor, lim model.StatLimits) (string, error)

// Handlers maps every model.UndoKind to its reversal.
var Handlers = map[model.UndoKind]Handler{
	model.UndoTaskCompletion: undoTaskCompletion,
	model.UndoTicketChange:   undoTicketChange,
	model.UndoLedgerChange:   undoLedgerChange,
	model.UndoGemChange:      undoGemChange,
}

type Options struct {
	Limits model.StatLimits
	Max    int
	Now    time.Time
	NewID  func() string
}

// Outcome describes a successful undo.
type Outcome struct {
	Reverted model.HistoryEntry `json:"reverted"`
	Audit    model.HistoryEntry `json:"audit"`
	Restored string             `json:"restored"`
}

// Undo reverts the entry with id inside s, which the caller owns (normally
// a clone of the live snapshot). On error s may be partially modified and
// must be discarded.
func Undo(s *model.WorldState, id string, opts Options) (Outcome, error) {
	i := Find(s.History, id)
	if i < 0 {
		return Outcome{}, model.Fail(model.CodeNotFound, "history entry not found")
	}
	return undoAt(s, i, opts)
}

// UndoLast reverts the newest entry that is still reversible.
func UndoLast(s *model.WorldState, opts Options) (Outcome, error) {
	i := LastUndoable(s.History)
	if i < 0 {
		return Outcome{}, model.Fail(model.CodeNotFound, "nothing to undo")
	}
	return undoAt(s, i, opts)
}

func undoAt(s *model.WorldState, i int, opts Options) (Outcome, error) {
	entry := s.History[i]
	if entry.Undone {
		return Outcome{}, model.Fail(model.CodeAlreadyUndone, "this action was already undone")
	}
	if entry.Undo == nil {
		return Outcome{}, model.Fail(model.CodeNotUndoable, "this action cannot be undone")
	}
	h, ok := Handlers[entry.Undo.Kind]
	if !ok {
		return Outcome{}, model.Fail(model.CodeNotUndoable, "unknown undo type %q", entry.Undo.Kind)
	}
	restored, err := h(s, entry.Undo, opts.Limits)
	if err != nil {
		return Outcome{}, err
	}

	entry.Undone = true
	entry.UndoneAt = model.TimePtr(opts.Now)
	s.History[i] = entry

	audit := model.HistoryEntry{
		Type:    model.HistoryUndo,
		Summary: "Undid: " + describe(entry),
		Payload: map[string]any{
			"entryId":   entry.ID,
			"entryType": string(entry.Type),
			"restored":  restored,
		},
	}
	s.History = Push(s.History, audit, opts.Max, opts.NewID, opts.Now)

	return Outcome{
		Reverted: entry.Clone(),
		Audit:    s.History[len(s.History)-1].Clone(),
		Restored: restored,
	}, nil
}

func describe(e model.HistoryEntry) string {
	if e.Summary != "" {
		return e.Summary
	}
	return string(e.Type)
}

func undoTaskCompletion(s *model.WorldState, d *model.UndoDescriptor, lim model.StatLimits) (string, error) {
	p := d.TaskCompletion
	if p == nil {
		return "", model.Fail(model.CodeNotUndoable, "completion snapshot missing")
	}
	if ti := s.TaskIndex(p.TaskID); ti >= 0 {
		t := &s.Tasks[ti]
		t.Status = p.PreviousStatus
		t.CompletedAt = p.PreviousCompletedAt
		t.LastCompletedAt = p.PreviousLastCompletedAt
		t.Streak = p.PreviousStreak
		t.StreakActive = p.PreviousStreakActive
	}
	s.CompletedTasks = slices.DeleteFunc(s.CompletedTasks, func(r model.CompletionRecord) bool {
		return r.ID == p.RecordID
	})
	s.Stats = p.PreviousStats.Clamp(lim)
	s.Currency.Coins = max(0, s.Currency.Coins-p.CoinsDelta)
	s.Exp = max(0, s.Exp-p.ExpDelta)
	if p.GemDrop != "" && s.Gems[p.GemDrop] > 0 {
		s.Gems[p.GemDrop]--
	}
	return fmt.Sprintf("task %s, %d coins, %d exp", p.TaskID, p.CoinsDelta, p.ExpDelta), nil
}

func undoTicketChange(s *model.WorldState, d *model.UndoDescriptor, _ model.StatLimits) (string, error) {
	p := d.Ticket
	if p == nil {
		return "", model.Fail(model.CodeNotUndoable, "ticket snapshot missing")
	}
	if s.Tickets == nil {
		s.Tickets = map[string]int{}
	}
	s.Tickets[p.Ticket] = max(0, p.PreviousCount)
	s.Currency.Coins = max(0, s.Currency.Coins-p.CoinsDelta)
	return fmt.Sprintf("%s tickets back to %d", p.Ticket, p.PreviousCount), nil
}

func undoLedgerChange(s *model.WorldState, d *model.UndoDescriptor, _ model.StatLimits) (string, error) {
	p := d.Ledger
	if p == nil {
		return "", model.Fail(model.CodeNotUndoable, "ledger snapshot missing")
	}
	s.Currency.Coins = max(0, s.Currency.Coins-p.CoinsDelta)
	s.Exp = max(0, s.Exp-p.ExpDelta)
	return fmt.Sprintf("%+d coins, %+d exp", -p.CoinsDelta, -p.ExpDelta), nil
}

func undoGemChange(s *model.WorldState, d *model.UndoDescriptor, _ model.StatLimits) (string, error) {
	p := d.Gem
	if p == nil {
		return "", model.Fail(model.CodeNotUndoable, "gem snapshot missing")
	}
	if s.Gems == nil {
		s.Gems = map[string]int{}
	}
	if s.Gems[p.Gem] < p.Delta {
		return "", model.Fail(model.CodeInsufficientBalance, "those %s gems were already spent", p.Gem)
	}
	s.Gems[p.Gem] -= p.Delta
	return fmt.Sprintf("%+d %s", -p.Delta, p.Gem), nil
}
