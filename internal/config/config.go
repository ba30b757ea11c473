package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"lifequest/internal/model"
)

type Config struct {
	Game    GameConfig    `yaml:"game" toml:"game"`
	Rewards RewardConfig  `yaml:"rewards" toml:"rewards"`
	History HistoryConfig `yaml:"history" toml:"history"`
	Events  EventConfig   `yaml:"events" toml:"events"`
	Gems    GemConfig     `yaml:"gems" toml:"gems"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

type GameConfig struct {
	// StartDate anchors the day index (YYYY-MM-DD).
	StartDate string `yaml:"start_date" toml:"start_date"`
	// Timezone is an IANA name; empty means the host's local zone.
	Timezone string `yaml:"timezone" toml:"timezone"`
	// CoinsPerUnit only affects how balances are displayed.
	CoinsPerUnit int              `yaml:"coins_per_unit" toml:"coins_per_unit"`
	Stats        model.StatLimits `yaml:"stats" toml:"stats"`

	DailyHungerDrain int `yaml:"daily_hunger_drain" toml:"daily_hunger_drain"`
	DailySanityDrain int `yaml:"daily_sanity_drain" toml:"daily_sanity_drain"`
	TicketCost       int `yaml:"ticket_cost" toml:"ticket_cost"`

	// Catalog optionally points at a YAML file with task templates,
	// achievements, map triggers and events.
	Catalog string `yaml:"catalog" toml:"catalog"`
}

type RewardConfig struct {
	ComboStep        float64            `yaml:"combo_step" toml:"combo_step"`
	ComboCap         float64            `yaml:"combo_cap" toml:"combo_cap"`
	StreakThreshold  int                `yaml:"streak_threshold" toml:"streak_threshold"`
	StreakMultiplier float64            `yaml:"streak_multiplier" toml:"streak_multiplier"`
	ExpRatio         float64            `yaml:"exp_ratio" toml:"exp_ratio"`
	KindMultipliers  map[string]float64 `yaml:"kind_multipliers" toml:"kind_multipliers"`
}

// HistoryConfig caps the action log. MaxEntries below PersistCap is raised
// to PersistCap by the engine.
type HistoryConfig struct {
	MaxEntries int `yaml:"max_entries" toml:"max_entries"`
	PersistCap int `yaml:"persist_cap" toml:"persist_cap"`
}

type EventConfig struct {
	DailyChance float64 `yaml:"daily_chance" toml:"daily_chance"`
}

type GemConfig struct {
	DropChance float64 `yaml:"drop_chance" toml:"drop_chance"`
}

type StorageConfig struct {
	Driver   string `yaml:"driver" toml:"driver"` // memory | file | sqlite
	DataDir  string `yaml:"data_dir" toml:"data_dir"`
	Compress bool   `yaml:"compress" toml:"compress"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr" toml:"addr"`
	RefreshInterval string `yaml:"refresh_interval" toml:"refresh_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // text | json
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			StartDate:        "2026-01-01",
			CoinsPerUnit:     100,
			Stats:            model.DefaultStatLimits,
			DailyHungerDrain: 10,
			DailySanityDrain: 5,
			TicketCost:       50,
		},
		Rewards: RewardConfig{
			ComboStep:        0.05,
			ComboCap:         0.5,
			StreakThreshold:  3,
			StreakMultiplier: 1.2,
			ExpRatio:         0.5,
			KindMultipliers: map[string]float64{
				"study":    1.2,
				"reading":  1.2,
				"learning": 1.2,
			},
		},
		History: HistoryConfig{
			MaxEntries: 200,
			PersistCap: 200,
		},
		Events: EventConfig{DailyChance: 0.35},
		Gems:   GemConfig{DropChance: 0.25},
		Storage: StorageConfig{
			Driver:  "file",
			DataDir: "data",
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8787",
			RefreshInterval: "30s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML or TOML file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	case ".toml":
		if _, err := toml.Decode(string(b), &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format: %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return c.validateAt(time.Now())
}

func (c Config) validateAt(now time.Time) error {
	epoch, err := c.Epoch()
	if err != nil {
		return fmt.Errorf("game.start_date: %w", err)
	}
	if epoch.After(now) {
		return fmt.Errorf("game.start_date: %s is in the future", c.Game.StartDate)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("game.timezone: %w", err)
	}
	lim := c.Game.Stats
	if lim.Life <= 0 || lim.Sanity <= 0 || lim.Hunger <= 0 {
		return fmt.Errorf("game.stats: maxima must be positive")
	}
	if c.Rewards.ComboStep < 0 || c.Rewards.ComboCap < 0 {
		return fmt.Errorf("rewards: combo step and cap must not be negative")
	}
	if c.Rewards.StreakThreshold < 1 {
		return fmt.Errorf("rewards.streak_threshold must be at least 1")
	}
	if c.History.MaxEntries < 1 || c.History.PersistCap < 1 {
		return fmt.Errorf("history: caps must be at least 1")
	}
	if c.Events.DailyChance < 0 || c.Events.DailyChance > 1 {
		return fmt.Errorf("events.daily_chance must be within [0,1]")
	}
	if c.Gems.DropChance < 0 || c.Gems.DropChance > 1 {
		return fmt.Errorf("gems.drop_chance must be within [0,1]")
	}
	switch c.Storage.Driver {
	case "memory", "file", "sqlite":
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	if _, err := c.RefreshEvery(); err != nil {
		return fmt.Errorf("server.refresh_interval: %w", err)
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	if c.Game.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Game.Timezone)
}

// Epoch is the game start date at midnight in the configured zone.
func (c Config) Epoch() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation("2006-01-02", c.Game.StartDate, loc)
}

func (c Config) RefreshEvery() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.RefreshInterval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}
