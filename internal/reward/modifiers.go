package reward

import (
	"math"

	"lifequest/internal/model"
)

// ApplyStreak scales the reward by mult when the task streak is active.
func ApplyStreak(r Result, active bool, mult float64) Result {
	if !active || mult <= 0 {
		return r
	}
	r.Coins = int(math.Round(float64(r.Coins) * mult))
	r.Exp = int(math.Floor(float64(r.Exp) * mult))
	return r
}

// ApplyEvent layers an active random event on top of the reward when the
// completed task's category is covered by the event.
func ApplyEvent(r Result, ev *model.RandomEvent, category string) Result {
	if ev == nil || !ev.Modifier.Applies(category) {
		return r
	}
	m := ev.Modifier
	if m.CoinMult > 0 {
		r.Coins = int(math.Round(float64(r.Coins) * m.CoinMult))
	}
	if m.ExpMult > 0 {
		r.Exp = int(math.Floor(float64(r.Exp) * m.ExpMult))
	}
	r.Exp += m.ExpBonus
	r.Coins = max(r.Coins, 0)
	r.Exp = max(r.Exp, 0)
	return r
}
