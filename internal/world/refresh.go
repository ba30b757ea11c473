package world

import (
	"context"

	"lifequest/internal/event"
	"lifequest/internal/model"
	"lifequest/internal/streak"
)

type RefreshResult struct {
	Changed      bool               `json:"changed"`
	PreviousDay  int                `json:"previousDay"`
	Day          int                `json:"day"`
	Date         string             `json:"date"`
	StreaksReset int                `json:"streaksReset"`
	Event        *model.RandomEvent `json:"event,omitempty"`
	EventCleared bool               `json:"eventCleared"`
}

// errUnchanged aborts an update without committing when nothing moved.
var errUnchanged = model.Fail("unchanged", "")

// RefreshTime re-derives the day index from the clock. It is a no-op unless
// the day index or the date marker changed, so it is safe to call from a
// ticker at any rate.
func (e *Engine) RefreshTime(ctx context.Context) (RefreshResult, error) {
	var out RefreshResult
	_, err := e.update(ctx, "refresh_time", func(tx *txn) error {
		s := tx.s
		cal := e.settings.Calendar
		day := cal.DayIndex(tx.now)
		date := cal.DateKey(tx.now)
		out = RefreshResult{PreviousDay: s.World.Day, Day: day, Date: date}

		if day == s.World.Day && date == s.World.LastRefreshDay {
			return errUnchanged
		}
		out.Changed = true

		firstRun := s.World.LastRefreshDay == ""
		prev := s.World.Day
		s.World.Day = day
		s.World.LastRefreshDay = date

		if day == prev && !firstRun {
			return nil
		}

		if day > prev {
			for i := range s.Tasks {
				t := &s.Tasks[i]
				if next, reset := streak.ResetMissed(t.Streak, day-1); reset {
					t.Streak = next
					t.StreakActive = false
					out.StreaksReset++
				}
			}
		}

		if elapsed := day - prev; elapsed > 0 && !firstRun {
			s.Stats = s.Stats.Apply(model.StatDelta{
				Hunger: -e.settings.HungerDrain * elapsed,
				Sanity: -e.settings.SanityDrain * elapsed,
			}, e.settings.Limits)
		}

		if event.Expired(s.World.RandomEvent, day) {
			s.World.RandomEvent = nil
			out.EventCleared = true
		}
		if s.World.RandomEvent == nil {
			if ev, ok := e.catalog.Events.Draw(e.rng, day, e.settings.EventChance); ok {
				s.World.RandomEvent = ev
				s.Stats = s.Stats.Apply(ev.StatDelta, e.settings.Limits)
				out.Event = ev
			}
		}
		return nil
	})
	if err == errUnchanged {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	if out.Day == out.PreviousDay {
		return out, nil
	}
	e.log.Info("day rollover",
		"previous_day", out.PreviousDay,
		"day", out.Day,
		"streaks_reset", out.StreaksReset,
		"event", eventName(out.Event),
	)
	return out, nil
}

func eventName(ev *model.RandomEvent) string {
	if ev == nil {
		return ""
	}
	return ev.Name
}
