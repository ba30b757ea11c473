// Package treasure creates, advances and completes treasure maps.
package treasure

import (
	"slices"
	"time"

	"lifequest/internal/model"
)

// Blueprint describes a map before it exists in the document.
type Blueprint struct {
	Name             string        `json:"name" yaml:"name"`
	Tier             model.MapTier `json:"tier" yaml:"tier"`
	Source           string        `json:"source" yaml:"source"`
	TargetTasks      int           `json:"targetTasks" yaml:"target_tasks"`
	BaseReward       model.Reward  `json:"baseReward" yaml:"base_reward"`
	BigReward        model.Reward  `json:"bigReward" yaml:"big_reward"`
	TargetCategories []string      `json:"targetCategories,omitempty" yaml:"target_categories,omitempty"`
}

// ForTier fills a blueprint with the standard target and rewards of tier.
func ForTier(tier model.MapTier, name, source string) Blueprint {
	b := Blueprint{Name: name, Tier: tier, Source: source}
	switch tier {
	case model.TierS:
		b.TargetTasks = 20
		b.BaseReward = model.Reward{Coins: 100, Exp: 50}
		b.BigReward = model.Reward{Coins: 600, Exp: 300, Claim: &model.ClaimGrant{Type: "jackpot", Name: "Weekend treat"}}
	case model.TierA:
		b.TargetTasks = 10
		b.BaseReward = model.Reward{Coins: 50, Exp: 20}
		b.BigReward = model.Reward{Coins: 250, Exp: 120, Claim: &model.ClaimGrant{Type: "treat", Name: "Favourite snack"}}
	default:
		b.Tier = model.TierB
		b.TargetTasks = 5
		b.BaseReward = model.Reward{Coins: 20, Exp: 10}
		b.BigReward = model.Reward{Coins: 100, Exp: 50}
	}
	return b
}

// Engine applies map operations to a document the caller owns.
type Engine struct {
	Limits model.StatLimits
	NewID  func() string
}

// Create adds a map built from b and grants its base reward immediately.
// A non-empty triggerKey makes the creation fire at most once per document;
// ok is false when the key was already used.
func (e Engine) Create(s *model.WorldState, b Blueprint, triggerKey string, now time.Time) (model.TreasureMap, bool) {
	if triggerKey != "" && s.HasTriggerKey(triggerKey) {
		return model.TreasureMap{}, false
	}
	m := model.TreasureMap{
		ID:               e.NewID(),
		Name:             b.Name,
		Tier:             b.Tier,
		Source:           b.Source,
		TriggerKey:       triggerKey,
		Status:           model.MapNew,
		TargetTasks:      max(b.TargetTasks, 1),
		BaseReward:       b.BaseReward.Clone(),
		BigReward:        b.BigReward.Clone(),
		TargetCategories: slices.Clone(b.TargetCategories),
		CreatedAt:        now,
	}
	if m.Tier == "" {
		m.Tier = model.TierB
	}
	if triggerKey != "" {
		s.TriggerKeys = append(s.TriggerKeys, triggerKey)
	}
	s.TreasureMaps = append(s.TreasureMaps, m)
	s.ApplyReward(m.BaseReward, e.Limits, "map:"+m.ID, e.claimID(m.BaseReward), now)
	return m.Clone(), true
}

// Progress advances every open map that counts category. It returns the ids
// of the maps that moved.
func (e Engine) Progress(s *model.WorldState, category string) []string {
	var moved []string
	for i := range s.TreasureMaps {
		m := &s.TreasureMaps[i]
		if m.Status == model.MapCompleted || !m.Counts(category) {
			continue
		}
		if m.Status == model.MapNew {
			m.Status = model.MapActive
		}
		if m.CompletedTasks < m.TargetTasks {
			m.CompletedTasks++
			moved = append(moved, m.ID)
		}
	}
	return moved
}

// Complete closes a map whose progress reached its target and grants the
// big reward.
func (e Engine) Complete(s *model.WorldState, id string, now time.Time) (model.TreasureMap, error) {
	i := s.MapIndex(id)
	if i < 0 {
		return model.TreasureMap{}, model.Fail(model.CodeNotFound, "treasure map not found")
	}
	m := &s.TreasureMaps[i]
	if m.Status == model.MapCompleted {
		return model.TreasureMap{}, model.Fail(model.CodeAlreadyCompleted, "%s is already completed", m.Name)
	}
	if m.CompletedTasks < m.TargetTasks {
		return model.TreasureMap{}, model.Fail(model.CodeProgressInsufficient,
			"%s needs %d more tasks", m.Name, m.TargetTasks-m.CompletedTasks)
	}
	m.Status = model.MapCompleted
	m.CompletedAt = model.TimePtr(now)
	s.ApplyReward(m.BigReward, e.Limits, "map:"+m.ID, e.claimID(m.BigReward), now)
	return m.Clone(), nil
}

func (e Engine) claimID(r model.Reward) string {
	if r.Claim == nil {
		return ""
	}
	return e.NewID()
}
