package world

import (
	"context"
	"fmt"
	"strings"

	"lifequest/internal/gem"
	"lifequest/internal/model"
	"lifequest/internal/treasure"
)

type GemResult struct {
	Gem       string `json:"gem"`
	Count     int    `json:"count"`
	HistoryID string `json:"historyId"`
}

// AddGems credits n gems of a known type. The grant is undoable while the
// gems are still held.
func (e *Engine) AddGems(ctx context.Context, g gem.Type, n int) (GemResult, error) {
	var out GemResult
	_, err := e.update(ctx, "add_gems", func(tx *txn) error {
		if !gem.Known(g, e.settings.Fusions) {
			return model.Fail(model.CodeInvalidInput, "unknown gem %q", g)
		}
		if err := positive(n, "gem count"); err != nil {
			return err
		}
		tx.s.Gems[string(g)] += n
		entry := e.push(tx, model.HistoryEntry{
			Type:    model.HistoryGemAdd,
			Summary: fmt.Sprintf("Found %d %s", n, g),
			Payload: map[string]any{"gem": string(g), "count": n},
			Undo: &model.UndoDescriptor{
				Kind: model.UndoGemChange,
				Gem:  &model.GemUndo{Gem: string(g), Delta: n},
			},
		})
		out = GemResult{Gem: string(g), Count: tx.s.Gems[string(g)], HistoryID: entry.ID}
		return nil
	})
	return out, err
}

type FuseResult struct {
	Gem       string             `json:"gem"`
	Remaining int                `json:"remaining"`
	Exp       int                `json:"exp"`
	Claim     model.Claim        `json:"claim"`
	Map       *model.TreasureMap `json:"map,omitempty"`
	HistoryID string             `json:"historyId"`
}

// FuseGem turns three gems of one type into a voucher and experience. The
// rarest tier also spawns a treasure map.
func (e *Engine) FuseGem(ctx context.Context, g gem.Type) (FuseResult, error) {
	var out FuseResult
	_, err := e.update(ctx, "fuse_gem", func(tx *txn) error {
		s := tx.s
		f, err := gem.Fuse(s.Gems, g, e.settings.Fusions)
		if err != nil {
			return err
		}
		source := "gem:" + string(g)
		claim := f.Claim
		s.ApplyReward(model.Reward{Exp: f.Exp, Claim: &claim}, e.settings.Limits, source, e.newID(), tx.now)

		out = FuseResult{
			Gem:       string(g),
			Remaining: s.Gems[string(g)],
			Exp:       f.Exp,
			Claim:     s.Claims[len(s.Claims)-1].Clone(),
		}
		payload := map[string]any{"gem": string(g), "exp": f.Exp, "claimId": out.Claim.ID}
		if f.SpawnsMap {
			name := titleCase(string(g)) + " Vault Map"
			m, _ := e.maps.Create(s, treasure.ForTier(f.MapTier, name, source), "", tx.now)
			out.Map = &m
			payload["mapId"] = m.ID
		}
		entry := e.push(tx, model.HistoryEntry{
			Type:    model.HistoryGemFuse,
			Summary: fmt.Sprintf("Fused %d %s into %s", gem.FuseCost, g, claim.Name),
			Payload: payload,
		})
		out.HistoryID = entry.ID
		return nil
	})
	return out, err
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
