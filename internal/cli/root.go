// Package cli implements the lifequest command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	dataDir    string
	storage    string
	preset     string
	jsonOut    bool
}

// NewRootCmd builds a fresh command tree. Every call is independent, so
// tests can run several invocations in one process.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "lifequest",
		Short: "Turn everyday tasks into a small role-playing game",
		Long: `lifequest tracks real-life tasks and rewards completing them with coins,
experience, streaks, achievements, gems and treasure maps. State lives in a
local data directory; every command rolls the day over before it runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	pf.StringVar(&f.dataDir, "data-dir", "", "override storage.data_dir")
	pf.StringVar(&f.storage, "storage", "", "override storage.driver (memory|file|sqlite)")
	pf.StringVar(&f.preset, "preset", "", "difficulty preset (casual|hard)")
	pf.BoolVar(&f.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		newServeCmd(f),
		newStatusCmd(f),
		newRefreshCmd(f),
		newTaskCmd(f),
		newCoinsCmd(f),
		newExpCmd(f),
		newTicketCmd(f),
		newGemCmd(f),
		newMapCmd(f),
		newClaimCmd(f),
		newHistoryCmd(f),
		newUndoCmd(f),
		newStatsCmd(f),
		newBackupCmd(f),
		newRestoreCmd(f),
		newDrillCmd(f),
	)
	return root
}

// Execute runs the command tree with the given arguments and streams.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
