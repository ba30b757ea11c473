package world

import (
	"context"
	"fmt"

	"lifequest/internal/model"
)

// Balance is returned by the ledger and ticket operations.
type Balance struct {
	Coins     int    `json:"coins"`
	Exp       int    `json:"exp"`
	Tickets   int    `json:"tickets"`
	HistoryID string `json:"historyId"`
}

func balanceOf(s *model.WorldState, entry model.HistoryEntry) Balance {
	return Balance{
		Coins:     s.Currency.Coins,
		Exp:       s.Exp,
		Tickets:   s.Tickets[model.TicketGame],
		HistoryID: entry.ID,
	}
}

func positive(n int, what string) error {
	if n <= 0 {
		return model.Fail(model.CodeInvalidInput, "%s must be a positive number", what)
	}
	return nil
}

func withReason(summary, reason string) string {
	if reason == "" {
		return summary
	}
	return summary + ": " + reason
}

func (e *Engine) AddCoins(ctx context.Context, amount int, reason string) (Balance, error) {
	var out Balance
	_, err := e.update(ctx, "add_coins", func(tx *txn) error {
		if err := positive(amount, "amount"); err != nil {
			return err
		}
		tx.s.Currency.Coins += amount
		entry := e.push(tx, model.HistoryEntry{
			Type:    model.HistoryCoinsAdd,
			Summary: withReason(fmt.Sprintf("Added %d coins", amount), reason),
			Payload: map[string]any{"amount": amount, "reason": reason},
			Undo: &model.UndoDescriptor{
				Kind:   model.UndoLedgerChange,
				Ledger: &model.LedgerUndo{CoinsDelta: amount},
			},
		})
		out = balanceOf(tx.s, entry)
		return nil
	})
	return out, err
}

// SpendCoins fails without touching the balance when it is too low.
func (e *Engine) SpendCoins(ctx context.Context, amount int, reason string) (Balance, error) {
	var out Balance
	_, err := e.update(ctx, "spend_coins", func(tx *txn) error {
		if err := positive(amount, "amount"); err != nil {
			return err
		}
		if have := tx.s.Currency.Coins; have < amount {
			return model.Fail(model.CodeInsufficientBalance, "not enough coins: you have %d, need %d", have, amount)
		}
		tx.s.Currency.Coins -= amount
		entry := e.push(tx, model.HistoryEntry{
			Type:    model.HistoryCoinsSpend,
			Summary: withReason(fmt.Sprintf("Spent %d coins", amount), reason),
			Payload: map[string]any{"amount": amount, "reason": reason},
			Undo: &model.UndoDescriptor{
				Kind:   model.UndoLedgerChange,
				Ledger: &model.LedgerUndo{CoinsDelta: -amount},
			},
		})
		out = balanceOf(tx.s, entry)
		return nil
	})
	return out, err
}

func (e *Engine) GrantExp(ctx context.Context, amount int, reason string) (Balance, error) {
	var out Balance
	_, err := e.update(ctx, "grant_exp", func(tx *txn) error {
		if err := positive(amount, "amount"); err != nil {
			return err
		}
		tx.s.Exp += amount
		entry := e.push(tx, model.HistoryEntry{
			Type:    model.HistoryExpGrant,
			Summary: withReason(fmt.Sprintf("Gained %d exp", amount), reason),
			Payload: map[string]any{"amount": amount, "reason": reason},
			Undo: &model.UndoDescriptor{
				Kind:   model.UndoLedgerChange,
				Ledger: &model.LedgerUndo{ExpDelta: amount},
			},
		})
		out = balanceOf(tx.s, entry)
		return nil
	})
	return out, err
}

// ExchangeCoinsForGameTicket buys one game ticket. A non-positive cost uses
// the configured ticket price.
func (e *Engine) ExchangeCoinsForGameTicket(ctx context.Context, cost int) (Balance, error) {
	if cost <= 0 {
		cost = e.settings.TicketCost
	}
	var out Balance
	_, err := e.update(ctx, "exchange_ticket", func(tx *txn) error {
		if err := positive(cost, "ticket cost"); err != nil {
			return err
		}
		if have := tx.s.Currency.Coins; have < cost {
			return model.Fail(model.CodeInsufficientBalance,
				"a game ticket costs %d coins, you only have %d", cost, have)
		}
		prev := tx.s.Tickets[model.TicketGame]
		tx.s.Currency.Coins -= cost
		tx.s.Tickets[model.TicketGame] = prev + 1
		entry := e.push(tx, model.HistoryEntry{
			Type:    model.HistoryTicketExchange,
			Summary: fmt.Sprintf("Exchanged %d coins for a game ticket", cost),
			Payload: map[string]any{"cost": cost, "tickets": prev + 1},
			Undo: &model.UndoDescriptor{
				Kind:   model.UndoTicketChange,
				Ticket: &model.TicketUndo{Ticket: model.TicketGame, PreviousCount: prev, CoinsDelta: -cost},
			},
		})
		out = balanceOf(tx.s, entry)
		return nil
	})
	return out, err
}

func (e *Engine) UseGameTicket(ctx context.Context) (Balance, error) {
	var out Balance
	_, err := e.update(ctx, "use_ticket", func(tx *txn) error {
		prev := tx.s.Tickets[model.TicketGame]
		if prev < 1 {
			return model.Fail(model.CodeInsufficientBalance, "no game tickets left, exchange some coins first")
		}
		tx.s.Tickets[model.TicketGame] = prev - 1
		entry := e.push(tx, model.HistoryEntry{
			Type:    model.HistoryTicketUse,
			Summary: "Used a game ticket",
			Payload: map[string]any{"tickets": prev - 1},
			Undo: &model.UndoDescriptor{
				Kind:   model.UndoTicketChange,
				Ticket: &model.TicketUndo{Ticket: model.TicketGame, PreviousCount: prev},
			},
		})
		out = balanceOf(tx.s, entry)
		return nil
	})
	return out, err
}
