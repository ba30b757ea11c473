package world

import (
	"lifequest/internal/clock"
	"lifequest/internal/config"
	"lifequest/internal/gem"
	"lifequest/internal/history"
	"lifequest/internal/model"
	"lifequest/internal/reward"
	"lifequest/internal/streak"
)

// Settings are the tunables the engine reads on every operation.
type Settings struct {
	Limits           model.StatLimits
	Reward           reward.Table
	StreakThreshold  int
	StreakMultiplier float64
	HistoryMax       int
	EventChance      float64
	GemDropChance    float64
	GemTable         gem.Table
	Fusions          map[gem.Type]gem.Fusion
	HungerDrain      int
	SanityDrain      int
	TicketCost       int
	CoinsPerUnit     int
	Calendar         clock.Calendar
}

func DefaultSettings() Settings {
	cfg := config.Default()
	s, _ := SettingsFromConfig(cfg)
	return s
}

// SettingsFromConfig derives engine settings from a validated config.
func SettingsFromConfig(cfg config.Config) (Settings, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Settings{}, err
	}
	epoch, err := cfg.Epoch()
	if err != nil {
		return Settings{}, err
	}

	table := reward.DefaultTable()
	table.ComboStep = cfg.Rewards.ComboStep
	table.ComboCap = cfg.Rewards.ComboCap
	table.ExpRatio = cfg.Rewards.ExpRatio
	if len(cfg.Rewards.KindMultipliers) > 0 {
		table.KindMultipliers = cfg.Rewards.KindMultipliers
	}

	threshold := cfg.Rewards.StreakThreshold
	if threshold <= 0 {
		threshold = streak.DefaultThreshold
	}
	historyMax := cfg.History.MaxEntries
	if historyMax <= 0 {
		historyMax = history.DefaultMax
	}
	// The in-memory log must hold at least what the store keeps.
	historyMax = max(historyMax, cfg.History.PersistCap)

	return Settings{
		Limits:           cfg.Game.Stats,
		Reward:           table,
		StreakThreshold:  threshold,
		StreakMultiplier: cfg.Rewards.StreakMultiplier,
		HistoryMax:       historyMax,
		EventChance:      cfg.Events.DailyChance,
		GemDropChance:    cfg.Gems.DropChance,
		GemTable:         gem.DefaultTable,
		Fusions:          gem.DefaultFusions,
		HungerDrain:      cfg.Game.DailyHungerDrain,
		SanityDrain:      cfg.Game.DailySanityDrain,
		TicketCost:       cfg.Game.TicketCost,
		CoinsPerUnit:     cfg.Game.CoinsPerUnit,
		Calendar:         clock.NewCalendar(epoch, loc),
	}, nil
}
