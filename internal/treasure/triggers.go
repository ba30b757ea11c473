package treasure

import (
	"fmt"
	"time"

	"lifequest/internal/model"
)

type RuleKind string

const (
	// CompletionCount fires once a category (and optional subtype) has been
	// completed Threshold times.
	CompletionCount RuleKind = "completion_count"
	// AchievementUnlock fires once the named achievement is unlocked.
	AchievementUnlock RuleKind = "achievement_unlock"
)

var RuleKinds = []RuleKind{CompletionCount, AchievementUnlock}

type Rule struct {
	Key         string    `json:"key" yaml:"key"`
	Kind        RuleKind  `json:"kind" yaml:"kind"`
	Category    string    `json:"category,omitempty" yaml:"category,omitempty"`
	Subtype     string    `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Threshold   int       `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Achievement string    `json:"achievement,omitempty" yaml:"achievement,omitempty"`
	Map         Blueprint `json:"map" yaml:"map"`
}

type check func(r Rule, s *model.WorldState) bool

var checks = map[RuleKind]check{
	CompletionCount:   completionCount,
	AchievementUnlock: achievementUnlock,
}

func ValidateRules(rules []Rule) error {
	seen := map[string]bool{}
	for _, r := range rules {
		if r.Key == "" {
			return fmt.Errorf("trigger rule without key")
		}
		if seen[r.Key] {
			return fmt.Errorf("duplicate trigger key %q", r.Key)
		}
		seen[r.Key] = true
		if _, ok := checks[r.Kind]; !ok {
			return fmt.Errorf("trigger %q: unknown kind %q", r.Key, r.Kind)
		}
	}
	return nil
}

// Trigger creates a map for every rule that is satisfied and has not fired
// before.
func (e Engine) Trigger(s *model.WorldState, rules []Rule, now time.Time) []model.TreasureMap {
	var created []model.TreasureMap
	for _, r := range rules {
		if s.HasTriggerKey(r.Key) {
			continue
		}
		c, ok := checks[r.Kind]
		if !ok || !c(r, s) {
			continue
		}
		b := r.Map
		if b.Source == "" {
			b.Source = "trigger:" + r.Key
		}
		if m, ok := e.Create(s, b, r.Key, now); ok {
			created = append(created, m)
		}
	}
	return created
}

func completionCount(r Rule, s *model.WorldState) bool {
	n := 0
	for _, c := range s.CompletedTasks {
		if c.Category != r.Category {
			continue
		}
		if r.Subtype != "" && c.Subtype != r.Subtype {
			continue
		}
		n++
	}
	return n >= max(r.Threshold, 1)
}

func achievementUnlock(r Rule, s *model.WorldState) bool {
	return s.IsUnlocked(r.Achievement)
}

// DefaultRules is the built-in trigger set.
func DefaultRules() []Rule {
	withCategory := func(b Blueprint, cats ...string) Blueprint {
		b.TargetCategories = cats
		return b
	}
	return []Rule{
		{
			Key: "study:course:5", Kind: CompletionCount, Category: "study", Subtype: "course", Threshold: 5,
			Map: withCategory(ForTier(model.TierA, "Scholar's Chart", ""), "study"),
		},
		{
			Key: "fitness:run:5", Kind: CompletionCount, Category: "fitness", Subtype: "run", Threshold: 5,
			Map: withCategory(ForTier(model.TierB, "Runner's Trail", ""), "fitness"),
		},
		{
			Key: "life:chore:5", Kind: CompletionCount, Category: "life", Subtype: "chore", Threshold: 5,
			Map: withCategory(ForTier(model.TierB, "Tidy Keeper's Map", ""), "life"),
		},
		{
			Key: "achievement:scholar", Kind: AchievementUnlock, Achievement: "scholar",
			Map: ForTier(model.TierS, "Grand Library Map", ""),
		},
	}
}
