package world

import (
	"lifequest/internal/model"
	"lifequest/internal/telemetry"
)

type Summary struct {
	Day                  int                `json:"day"`
	Date                 string             `json:"date"`
	Level                int                `json:"level"`
	Exp                  int                `json:"exp"`
	NextLevelExp         int                `json:"nextLevelExp"`
	Coins                int                `json:"coins"`
	Wallet               float64            `json:"wallet"`
	Stats                model.Stats        `json:"stats"`
	Tickets              int                `json:"tickets"`
	Gems                 map[string]int     `json:"gems"`
	OpenTasks            int                `json:"openTasks"`
	CompletedToday       int                `json:"completedToday"`
	ActiveMaps           int                `json:"activeMaps"`
	UnlockedAchievements int                `json:"unlockedAchievements"`
	UnusedClaims         int                `json:"unusedClaims"`
	Combo                model.Burst        `json:"combo"`
	Event                *model.RandomEvent `json:"event,omitempty"`
}

// Summary condenses the current snapshot for status displays.
func (e *Engine) Summary() Summary {
	s := e.State()
	level := model.LevelForExp(s.Exp)
	out := Summary{
		Day:          s.World.Day,
		Date:         s.World.LastRefreshDay,
		Level:        level,
		Exp:          s.Exp,
		NextLevelExp: model.ExpForLevel(level + 1),
		Coins:        s.Currency.Coins,
		Stats:        s.Stats,
		Tickets:      s.Tickets[model.TicketGame],
		Gems:         s.Gems,
		Combo:        s.Burst,
		Event:        s.World.RandomEvent,
	}
	if e.settings.CoinsPerUnit > 0 {
		out.Wallet = float64(s.Currency.Coins) / float64(e.settings.CoinsPerUnit)
	}
	for _, t := range s.Tasks {
		if t.Repeatable || t.Status == model.StatusTodo {
			out.OpenTasks++
		}
	}
	for _, r := range s.CompletedTasks {
		if r.Day == s.World.Day {
			out.CompletedToday++
		}
	}
	for _, m := range s.TreasureMaps {
		if m.Status != model.MapCompleted {
			out.ActiveMaps++
		}
	}
	for _, a := range s.Achievements {
		if a.Unlocked {
			out.UnlockedAchievements++
		}
	}
	for _, c := range s.Claims {
		if !c.Used {
			out.UnusedClaims++
		}
	}
	return out
}

// Stats summarises the last days of activity, today included.
func (e *Engine) Stats(days int) telemetry.Stats {
	if days < 1 {
		days = 7
	}
	s := e.State()
	now := e.clock.Now()
	since := e.settings.Calendar.DayStart(e.settings.Calendar.DayIndex(now) - days + 1)
	return telemetry.CalculateStats(s.History, s.CompletedTasks, since, now)
}
