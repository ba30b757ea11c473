package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"lifequest/internal/metrics"
	"lifequest/internal/ops"
	"lifequest/internal/server"
	"lifequest/internal/world"
)

func newServeCmd(f *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with a background day-rollover loop",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		m := metrics.New()
		a, err := openApp(cmd, f, world.WithRecorder(m))
		if err != nil {
			return err
		}
		defer a.Close()
		if addr == "" {
			addr = a.cfg.Server.Addr
		}
		every, err := a.cfg.RefreshEvery()
		if err != nil {
			return err
		}

		srv := server.New(a.engine, server.WithMetrics(m.Handler()), server.WithLogger(a.log))
		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()
		go srv.RunRefreshLoop(ctx, every)

		errCh := make(chan error, 1)
		go func() {
			a.log.Info("listening", "addr", addr, "storage", a.cfg.Storage.Driver, "data_dir", a.cfg.Storage.DataDir)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("forced shutdown", "error", err)
		}
		return nil
	}
	return cmd
}

func newStatusCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, wallet, stats and progress",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(_ context.Context, a *app, _ []string) error {
			s := a.engine.Summary()
			lim := a.engine.Settings().Limits
			return a.out.emit(s, func(w io.Writer) {
				fmt.Fprintf(w, "Day %d (%s)\n", s.Day, s.Date)
				fmt.Fprintf(w, "Level %d  %d/%d exp\n", s.Level, s.Exp, s.NextLevelExp)
				fmt.Fprintf(w, "Wallet %s  tickets %d\n", a.out.wallet(s.Coins), s.Tickets)
				fmt.Fprintf(w, "Life %d/%d  Sanity %d/%d  Hunger %d/%d\n",
					s.Stats.Life, lim.Life, s.Stats.Sanity, lim.Sanity, s.Stats.Hunger, lim.Hunger)
				fmt.Fprintf(w, "Tasks open %d, done today %d\n", s.OpenTasks, s.CompletedToday)
				fmt.Fprintf(w, "Maps active %d  achievements %d  vouchers %d\n",
					s.ActiveMaps, s.UnlockedAchievements, s.UnusedClaims)
				if s.Combo.ComboCount > 1 {
					fmt.Fprintf(w, "Combo %s x%d\n", s.Combo.LastKind, s.Combo.ComboCount)
				}
				if s.Event != nil {
					fmt.Fprintf(w, "Today: %s. %s\n", s.Event.Name, s.Event.Description)
				}
			})
		}),
	}
}

func newRefreshCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Roll the day over if the date changed",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(_ context.Context, a *app, _ []string) error {
			// Opening the app performs the rollover.
			res := a.refreshed
			return a.out.emit(res, func(w io.Writer) {
				switch {
				case res.Day != res.PreviousDay:
					fmt.Fprintf(w, "Day %d -> %d (%s)\n", res.PreviousDay, res.Day, res.Date)
				default:
					fmt.Fprintf(w, "Still day %d (%s)\n", res.Day, res.Date)
				}
				if res.StreaksReset > 0 {
					fmt.Fprintf(w, "%d streaks broke\n", res.StreaksReset)
				}
				if res.Event != nil {
					fmt.Fprintf(w, "Today: %s. %s\n", res.Event.Name, res.Event.Description)
				}
			})
		}),
	}
}

func newBackupCmd(f *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory (tar.zst)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			if out == "" {
				ts := time.Now().UTC().Format("20060102T150405Z")
				out = filepath.Join("backups", "lifequest-"+ts+".tar.zst")
			}
			n, err := ops.Backup(cfg.Storage.DataDir, out)
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}
			p := printer{w: cmd.OutOrStdout(), json: f.jsonOut}
			return p.emit(map[string]any{"archive": out, "files": n}, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%d files)\n", out, n)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "archive path (default backups/lifequest-<timestamp>.tar.zst)")
	return cmd
}

func newRestoreCmd(f *rootFlags) *cobra.Command {
	var target string
	var list bool
	cmd := &cobra.Command{
		Use:   "restore ARCHIVE",
		Short: "Unpack a backup archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer{w: cmd.OutOrStdout(), json: f.jsonOut}
			if list {
				entries, err := ops.List(args[0])
				if err != nil {
					return err
				}
				return p.emit(entries, func(w io.Writer) {
					for _, e := range entries {
						fmt.Fprintf(w, "%8d  %s\n", e.Size, e.Name)
					}
				})
			}
			n, err := ops.Restore(args[0], target)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			return p.emit(map[string]any{"target": target, "files": n}, func(w io.Writer) {
				fmt.Fprintf(w, "Restored %d files into %s\n", n, target)
			})
		},
	}
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "directory to restore into")
	cmd.Flags().BoolVar(&list, "list", false, "list archive contents without extracting")
	return cmd
}

func newDrillCmd(f *rootFlags) *cobra.Command {
	var workDir string
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Back up, restore and verify the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			rep, err := ops.Drill(cfg.Storage.DataDir, workDir, time.Now())
			if err != nil {
				return fmt.Errorf("drill failed: %w", err)
			}
			p := printer{w: cmd.OutOrStdout(), json: f.jsonOut}
			return p.emit(rep, func(w io.Writer) {
				fmt.Fprintln(w, "backup:  ", rep.Archive)
				fmt.Fprintln(w, "restored:", rep.RestoreDir)
				fmt.Fprintln(w, "digest:  ", rep.Digest)
			})
		},
	}
	cmd.Flags().StringVar(&workDir, "work-dir", os.TempDir(), "scratch directory for drill artifacts")
	return cmd
}
