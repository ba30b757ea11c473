package world

import (
	"context"
	"fmt"
	"strings"

	"lifequest/internal/model"
	"lifequest/internal/treasure"
)

// MapInput describes a manually added treasure map. Zero fields fall back
// to the tier's standard values.
type MapInput struct {
	Name             string        `json:"name"`
	Tier             model.MapTier `json:"tier"`
	TargetTasks      int           `json:"targetTasks,omitempty"`
	TargetCategories []string      `json:"targetCategories,omitempty"`
	BaseReward       *model.Reward `json:"baseReward,omitempty"`
	BigReward        *model.Reward `json:"bigReward,omitempty"`
}

func (e *Engine) AddTreasureMap(ctx context.Context, in MapInput) (model.TreasureMap, error) {
	var out model.TreasureMap
	_, err := e.update(ctx, "add_map", func(tx *txn) error {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return model.Fail(model.CodeInvalidInput, "a treasure map needs a name")
		}
		switch in.Tier {
		case "", model.TierB, model.TierA, model.TierS:
		default:
			return model.Fail(model.CodeInvalidInput, "unknown map tier %q", in.Tier)
		}
		if in.TargetTasks < 0 {
			return model.Fail(model.CodeInvalidInput, "target tasks must not be negative")
		}
		b := treasure.ForTier(in.Tier, name, "manual")
		if in.TargetTasks > 0 {
			b.TargetTasks = in.TargetTasks
		}
		b.TargetCategories = in.TargetCategories
		if in.BaseReward != nil {
			b.BaseReward = *in.BaseReward
		}
		if in.BigReward != nil {
			b.BigReward = *in.BigReward
		}

		m, _ := e.maps.Create(tx.s, b, "", tx.now)
		e.push(tx, model.HistoryEntry{
			Type:    model.HistoryMapAdd,
			Summary: fmt.Sprintf("Discovered %s (%s)", m.Name, m.Tier),
			Payload: map[string]any{"mapId": m.ID, "tier": string(m.Tier)},
		})
		out = m
		return nil
	})
	return out, err
}

func (e *Engine) CompleteTreasureMap(ctx context.Context, mapID string) (model.TreasureMap, error) {
	var out model.TreasureMap
	_, err := e.update(ctx, "complete_map", func(tx *txn) error {
		m, err := e.maps.Complete(tx.s, mapID, tx.now)
		if err != nil {
			return err
		}
		e.push(tx, model.HistoryEntry{
			Type:    model.HistoryMapComplete,
			Summary: "Completed " + m.Name,
			Payload: map[string]any{
				"mapId": m.ID,
				"coins": m.BigReward.Coins,
				"exp":   m.BigReward.Exp,
			},
		})
		out = m
		return nil
	})
	return out, err
}

// UseClaim redeems a voucher. Redemption is final.
func (e *Engine) UseClaim(ctx context.Context, claimID string) (model.Claim, error) {
	var out model.Claim
	_, err := e.update(ctx, "use_claim", func(tx *txn) error {
		i := tx.s.ClaimIndex(claimID)
		if i < 0 {
			return model.Fail(model.CodeNotFound, "voucher not found")
		}
		c := &tx.s.Claims[i]
		if c.Used {
			return model.Fail(model.CodeAlreadyCompleted, "%s was already used", c.Name)
		}
		c.Used = true
		c.UsedAt = model.TimePtr(tx.now)
		e.push(tx, model.HistoryEntry{
			Type:    model.HistoryClaimUse,
			Summary: "Redeemed " + c.Name,
			Payload: map[string]any{"claimId": c.ID, "type": c.Type},
		})
		out = c.Clone()
		return nil
	})
	return out, err
}
