package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lifequest/internal/history"
	"lifequest/internal/model"
)

func newHistoryCmd(f *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent actions, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(_ context.Context, a *app, _ []string) error {
			entries := a.engine.History(limit)
			return a.out.emit(entries, func(io.Writer) {
				a.out.table("ID\tWHEN\tTYPE\tSUMMARY\tUNDO", func(tw *tabwriter.Writer) {
					for _, e := range entries {
						undo := "-"
						switch {
						case e.Undone:
							undo = "undone"
						case e.Undoable:
							undo = "yes"
						}
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
							e.ID, e.Timestamp.Local().Format(time.DateTime), e.Type, e.Summary, undo)
					}
				})
			})
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "entries to show (0 for all)")
	return cmd
}

func newUndoCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "undo [HISTORY_ID]",
		Short: "Undo one history entry, or the newest undoable one",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			var (
				out history.Outcome
				err error
			)
			if len(args) == 1 {
				out, err = a.engine.UndoHistoryItem(ctx, args[0])
			} else {
				out, err = a.engine.UndoLastAction(ctx)
			}
			if err != nil {
				return err
			}
			return a.out.emit(out, func(w io.Writer) {
				fmt.Fprintln(w, out.Audit.Summary)
			})
		}),
	}
}

func newStatsCmd(f *rootFlags) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise activity over the last few days",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(_ context.Context, a *app, _ []string) error {
			if days < 1 {
				return model.Fail(model.CodeInvalidInput, "--days must be at least 1")
			}
			s := a.engine.Stats(days)
			return a.out.emit(s, func(w io.Writer) {
				fmt.Fprintf(w, "Since %s (%d days)\n", s.Period, s.Days)
				fmt.Fprintf(w, "Tasks %d (%.1f/day)  earned %s, %d exp\n",
					s.TaskCompletions, s.TasksPerDay, a.out.wallet(s.CoinsEarned), s.ExpEarned)
				fmt.Fprintf(w, "Spent %s  tickets %d bought, %d used\n",
					a.out.wallet(s.CoinsSpent), s.TicketsBought, s.TicketsUsed)
				fmt.Fprintf(w, "Maps %d  vouchers %d  fusions %d  undos %d\n",
					s.MapsCompleted, s.ClaimsUsed, s.GemsFused, s.Undos)
				if len(s.ByCategory) > 0 {
					a.out.table("CATEGORY\tDONE", func(tw *tabwriter.Writer) {
						for _, c := range slices.Sorted(maps.Keys(s.ByCategory)) {
							fmt.Fprintf(tw, "%s\t%d\n", c, s.ByCategory[c])
						}
					})
				}
			})
		}),
	}
	cmd.Flags().IntVarP(&days, "days", "d", 7, "window size in days, today included")
	return cmd
}
