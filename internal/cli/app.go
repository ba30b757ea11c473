package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"lifequest/internal/catalog"
	"lifequest/internal/config"
	"lifequest/internal/store"
	"lifequest/internal/world"
)

// app is one opened data directory with its engine.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	store  *store.Store
	engine *world.Engine
	out    printer

	// refreshed is the rollover performed while opening.
	refreshed world.RefreshResult
}

func loadConfig(f *rootFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	cfg = config.ApplyEnv(cfg)
	switch strings.ToLower(f.preset) {
	case "":
	case "casual":
		cfg = config.Casual(cfg)
	case "hard":
		cfg = config.Hard(cfg)
	default:
		return cfg, fmt.Errorf("unknown preset %q", f.preset)
	}
	if f.dataDir != "" {
		cfg.Storage.DataDir = f.dataDir
	}
	if f.storage != "" {
		cfg.Storage.Driver = f.storage
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openApp loads config, state and catalog, then rolls the day over so
// every command acts on the current day.
func openApp(cmd *cobra.Command, f *rootFlags, opts ...world.Option) (*app, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	settings, err := world.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	cat := catalog.Default()
	if cfg.Game.Catalog != "" {
		if cat, err = catalog.LoadFile(cfg.Game.Catalog); err != nil {
			return nil, err
		}
	}

	backend, err := store.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	st := store.New(backend,
		store.WithLogger(logger),
		store.WithLimits(settings.Limits),
		store.WithPersistCap(cfg.History.PersistCap),
	)

	ctx := cmd.Context()
	opts = append([]world.Option{world.WithPersister(st), world.WithLogger(logger)}, opts...)
	eng := world.New(st.Load(ctx), cat, settings, opts...)
	refreshed, err := eng.RefreshTime(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &app{
		cfg:    cfg,
		log:    logger,
		store:  st,
		engine: eng,
		out:    printer{w: cmd.OutOrStdout(), json: f.jsonOut, coinsPerUnit: cfg.Game.CoinsPerUnit},

		refreshed: refreshed,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp wraps a command body that needs an opened app.
func withApp(f *rootFlags, fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, f)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a, args)
	}
}
