package model

import (
	"maps"
	"time"
)

// HistoryType names the action a history entry records.
type HistoryType string

const (
	HistoryTaskAdd        HistoryType = "task_add"
	HistoryTaskComplete   HistoryType = "task_complete"
	HistoryCoinsAdd       HistoryType = "coins_add"
	HistoryCoinsSpend     HistoryType = "coins_spend"
	HistoryExpGrant       HistoryType = "exp_grant"
	HistoryTicketExchange HistoryType = "ticket_exchange"
	HistoryTicketUse      HistoryType = "ticket_use"
	HistoryGemAdd         HistoryType = "gem_add"
	HistoryGemFuse        HistoryType = "gem_fuse"
	HistoryMapAdd         HistoryType = "map_add"
	HistoryMapComplete    HistoryType = "map_complete"
	HistoryClaimUse       HistoryType = "claim_use"
	HistoryUndo           HistoryType = "history_undo"
)

// UndoKind selects the reversal handler for an entry.
type UndoKind string

const (
	UndoTaskCompletion UndoKind = "task_completion"
	UndoTicketChange   UndoKind = "ticket_change"
	UndoLedgerChange   UndoKind = "ledger_change"
	UndoGemChange      UndoKind = "gem_change"
)

// UndoKinds lists every reversal kind. Each must have a handler.
var UndoKinds = []UndoKind{UndoTaskCompletion, UndoTicketChange, UndoLedgerChange, UndoGemChange}

// UndoDescriptor carries exactly one payload matching Kind. The payloads
// hold values captured before the action ran, so reversal restores them
// verbatim instead of recomputing.
type UndoDescriptor struct {
	Kind           UndoKind            `json:"type"`
	TaskCompletion *TaskCompletionUndo `json:"taskCompletion,omitempty"`
	Ticket         *TicketUndo         `json:"ticket,omitempty"`
	Ledger         *LedgerUndo         `json:"ledger,omitempty"`
	Gem            *GemUndo            `json:"gem,omitempty"`
}

type TaskCompletionUndo struct {
	TaskID                  string     `json:"taskId"`
	RecordID                string     `json:"recordId"`
	PreviousStatus          TaskStatus `json:"previousStatus"`
	PreviousCompletedAt     *time.Time `json:"previousCompletedAt,omitempty"`
	PreviousLastCompletedAt *time.Time `json:"previousLastCompletedAt,omitempty"`
	PreviousStreak          Streak     `json:"previousStreak"`
	PreviousStreakActive    bool       `json:"previousStreakActive"`
	PreviousStats           Stats      `json:"previousStats"`
	CoinsDelta              int        `json:"coinsDelta"`
	ExpDelta                int        `json:"expDelta"`
	GemDrop                 string     `json:"gemDrop,omitempty"`
}

type TicketUndo struct {
	Ticket        string `json:"ticket"`
	PreviousCount int    `json:"previousCount"`
	CoinsDelta    int    `json:"coinsDelta,omitempty"`
}

type LedgerUndo struct {
	CoinsDelta int `json:"coinsDelta,omitempty"`
	ExpDelta   int `json:"expDelta,omitempty"`
}

type GemUndo struct {
	Gem   string `json:"gem"`
	Delta int    `json:"delta"`
}

func (u *UndoDescriptor) Clone() *UndoDescriptor {
	if u == nil {
		return nil
	}
	out := *u
	if u.TaskCompletion != nil {
		tc := *u.TaskCompletion
		tc.PreviousCompletedAt = cloneTime(u.TaskCompletion.PreviousCompletedAt)
		tc.PreviousLastCompletedAt = cloneTime(u.TaskCompletion.PreviousLastCompletedAt)
		out.TaskCompletion = &tc
	}
	if u.Ticket != nil {
		t := *u.Ticket
		out.Ticket = &t
	}
	if u.Ledger != nil {
		l := *u.Ledger
		out.Ledger = &l
	}
	if u.Gem != nil {
		g := *u.Gem
		out.Gem = &g
	}
	return &out
}

type HistoryEntry struct {
	ID        string          `json:"id"`
	Type      HistoryType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Summary   string          `json:"summary,omitempty"`
	Payload   map[string]any  `json:"payload,omitempty"`
	Undo      *UndoDescriptor `json:"undo"`
	Undoable  bool            `json:"undoable"`
	Undone    bool            `json:"undone"`
	UndoneAt  *time.Time      `json:"undoneAt,omitempty"`
}

func (e HistoryEntry) Clone() HistoryEntry {
	out := e
	out.Payload = maps.Clone(e.Payload)
	out.Undo = e.Undo.Clone()
	out.UndoneAt = cloneTime(e.UndoneAt)
	return out
}
