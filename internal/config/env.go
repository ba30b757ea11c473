package config

import (
	"os"
	"strconv"
)

// ApplyEnv overrides cfg from LIFEQUEST_* environment variables. A
// LIFEQUEST_DIFFICULTY preset is applied first so explicit variables win.
func ApplyEnv(cfg Config) Config {
	switch os.Getenv("LIFEQUEST_DIFFICULTY") {
	case "casual":
		cfg = Casual(cfg)
	case "hard":
		cfg = Hard(cfg)
	}

	if val := os.Getenv("LIFEQUEST_START_DATE"); val != "" {
		cfg.Game.StartDate = val
	}
	if val := os.Getenv("LIFEQUEST_TIMEZONE"); val != "" {
		cfg.Game.Timezone = val
	}
	if val := os.Getenv("LIFEQUEST_STORAGE"); val != "" {
		cfg.Storage.Driver = val
	}
	if val := os.Getenv("LIFEQUEST_CATALOG"); val != "" {
		cfg.Game.Catalog = val
	}
	if val := os.Getenv("LIFEQUEST_DATA_DIR"); val != "" {
		cfg.Storage.DataDir = val
	}
	if val := os.Getenv("LIFEQUEST_ADDR"); val != "" {
		cfg.Server.Addr = val
	}
	if val := os.Getenv("LIFEQUEST_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := getEnvInt("LIFEQUEST_HISTORY_CAP"); val > 0 {
		cfg.History.PersistCap = val
	}
	if val := getEnvInt("LIFEQUEST_COINS_PER_UNIT"); val > 0 {
		cfg.Game.CoinsPerUnit = val
	}
	if val, ok := getEnvFloat("LIFEQUEST_EVENT_CHANCE"); ok {
		cfg.Events.DailyChance = val
	}
	if val, ok := getEnvFloat("LIFEQUEST_GEM_DROP_CHANCE"); ok {
		cfg.Gems.DropChance = val
	}
	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvFloat(key string) (float64, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
