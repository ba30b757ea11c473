package model

import (
	"slices"
	"time"
)

type MapTier string

const (
	TierB MapTier = "B"
	TierA MapTier = "A"
	TierS MapTier = "S"
)

type MapStatus string

const (
	MapNew       MapStatus = "new"
	MapActive    MapStatus = "active"
	MapCompleted MapStatus = "completed"
)

// ClaimGrant describes a voucher handed out by a reward.
type ClaimGrant struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// Reward bundles everything a single grant can hand out.
type Reward struct {
	Coins int         `json:"coins,omitempty" yaml:"coins,omitempty"`
	Exp   int         `json:"exp,omitempty" yaml:"exp,omitempty"`
	Stats StatDelta   `json:"stats,omitempty" yaml:"stats,omitempty"`
	Claim *ClaimGrant `json:"claim,omitempty" yaml:"claim,omitempty"`
}

func (r Reward) IsZero() bool {
	return r.Coins == 0 && r.Exp == 0 && r.Stats.IsZero() && r.Claim == nil
}

func (r Reward) Clone() Reward {
	out := r
	if r.Claim != nil {
		c := *r.Claim
		out.Claim = &c
	}
	return out
}

type TreasureMap struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Tier             MapTier    `json:"tier"`
	Source           string     `json:"source"`
	TriggerKey       string     `json:"triggerKey,omitempty"`
	Status           MapStatus  `json:"status"`
	TargetTasks      int        `json:"targetTasks"`
	CompletedTasks   int        `json:"completedTasks"`
	BaseReward       Reward     `json:"baseReward"`
	BigReward        Reward     `json:"bigReward"`
	TargetCategories []string   `json:"targetCategories,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// Counts reports whether a completion in category advances this map.
func (m TreasureMap) Counts(category string) bool {
	if len(m.TargetCategories) == 0 {
		return true
	}
	return slices.Contains(m.TargetCategories, category)
}

func (m TreasureMap) Clone() TreasureMap {
	out := m
	out.BaseReward = m.BaseReward.Clone()
	out.BigReward = m.BigReward.Clone()
	out.TargetCategories = slices.Clone(m.TargetCategories)
	out.CompletedAt = cloneTime(m.CompletedAt)
	return out
}

// Claim is a redeemable reward voucher.
type Claim struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Source    string     `json:"source"`
	Used      bool       `json:"used"`
	CreatedAt time.Time  `json:"createdAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
}

func (c Claim) Clone() Claim {
	out := c
	out.UsedAt = cloneTime(c.UsedAt)
	return out
}

type AchievementState struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Target      int        `json:"target"`
	Progress    int        `json:"progress"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

func (a AchievementState) Clone() AchievementState {
	out := a
	out.UnlockedAt = cloneTime(a.UnlockedAt)
	return out
}
