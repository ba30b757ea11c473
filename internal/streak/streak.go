// Package streak advances and decays per-task consecutive-day counters.
package streak

import "lifequest/internal/model"

// DefaultThreshold is the streak length that activates the reward bonus.
const DefaultThreshold = 3

type Result struct {
	Streak model.Streak
	Active bool
}

// Update records a completion on day. A second completion on the same day
// does not count again; a completion on the following day extends the run;
// anything else starts over at 1.
func Update(cur model.Streak, day, threshold int) Result {
	next := cur
	switch {
	case cur.Count > 0 && cur.LastDay == day:
		next.Count = max(cur.Count, 1)
	case cur.Count > 0 && cur.LastDay == day-1:
		next.Count = cur.Count + 1
	default:
		next.Count = 1
	}
	next.LastDay = day
	return Result{Streak: next, Active: next.Count >= threshold}
}

// ResetMissed zeroes a streak last extended before previousDay. It is run
// for every task on day rollover so untouched tasks decay too.
func ResetMissed(cur model.Streak, previousDay int) (model.Streak, bool) {
	if cur.Count == 0 || cur.LastDay >= previousDay {
		return cur, false
	}
	return model.Streak{Count: 0, LastDay: cur.LastDay}, true
}
