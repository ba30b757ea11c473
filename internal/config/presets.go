package config

// Casual softens daily drain and makes random events more frequent.
func Casual(cfg Config) Config {
	cfg.Game.DailyHungerDrain = 5
	cfg.Game.DailySanityDrain = 2
	cfg.Events.DailyChance = 0.5
	cfg.Gems.DropChance = 0.35
	return cfg
}

// Hard drains stats faster and asks for longer streaks.
func Hard(cfg Config) Config {
	cfg.Game.DailyHungerDrain = 15
	cfg.Game.DailySanityDrain = 8
	cfg.Rewards.StreakThreshold = 4
	cfg.Events.DailyChance = 0.2
	cfg.Gems.DropChance = 0.15
	return cfg
}
