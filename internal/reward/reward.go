// Package reward turns task effort into coins and experience.
//
// Calculate is pure and event-agnostic. Streak and random-event modifiers
// are layered on top by the caller with ApplyStreak and ApplyEvent.
package reward

import (
	"math"

	"lifequest/internal/model"
)

// Table holds the tunable constants of the reward formula.
type Table struct {
	ComboStep       float64
	ComboCap        float64
	ExpRatio        float64
	KindMultipliers map[string]float64
}

func DefaultTable() Table {
	return Table{
		ComboStep: 0.05,
		ComboCap:  0.5,
		ExpRatio:  0.5,
		KindMultipliers: map[string]float64{
			"study":    1.2,
			"reading":  1.2,
			"learning": 1.2,
		},
	}
}

type Input struct {
	Difficulty int
	Minutes    int
	Kind       string
	ComboCount int
}

type Result struct {
	Coins      int     `json:"coins"`
	Exp        int     `json:"exp"`
	BurstBonus float64 `json:"burstBonus"`
}

// Calculate computes the base reward:
//
//	base  = (minutes/10) * difficulty * 10
//	coins = round(base * kindMultiplier * (1 + burstBonus))
//	exp   = floor(coins * expRatio)
//
// Difficulty is clamped to [1,5], minutes and combo are floored at 1.
func (t Table) Calculate(in Input) Result {
	difficulty := min(max(in.Difficulty, model.MinDifficulty), model.MaxDifficulty)
	minutes := max(in.Minutes, 1)
	combo := max(in.ComboCount, 1)

	base := float64(minutes) / 10 * float64(difficulty) * 10
	burst := t.BurstBonus(combo)
	coins := int(math.Round(base * t.KindMultiplier(in.Kind) * (1 + burst)))

	return Result{
		Coins:      coins,
		Exp:        int(math.Floor(float64(coins) * t.expRatio())),
		BurstBonus: burst,
	}
}

// BurstBonus is the combo bonus fraction, capped at ComboCap.
func (t Table) BurstBonus(combo int) float64 {
	if combo <= 1 {
		return 0
	}
	return math.Min(t.ComboStep*float64(combo-1), t.ComboCap)
}

func (t Table) KindMultiplier(kind string) float64 {
	if m, ok := t.KindMultipliers[kind]; ok && m > 0 {
		return m
	}
	return 1.0
}

func (t Table) expRatio() float64 {
	if t.ExpRatio <= 0 {
		return 0.5
	}
	return t.ExpRatio
}

// Calculate runs the default table.
func Calculate(difficulty, minutes int, kind string, comboCount int) Result {
	return DefaultTable().Calculate(Input{Difficulty: difficulty, Minutes: minutes, Kind: kind, ComboCount: comboCount})
}
