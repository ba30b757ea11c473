package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifequest/internal/model"
	"lifequest/internal/world"
)

func newMapCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "map", Short: "Treasure maps"}

	var in world.MapInput
	var tier string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a treasure map by hand",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			in.Name = args[0]
			in.Tier = model.MapTier(strings.ToUpper(tier))
			m, err := a.engine.AddTreasureMap(ctx, in)
			if err != nil {
				return err
			}
			return a.out.emit(m, func(w io.Writer) {
				fmt.Fprintf(w, "Discovered %s (%s) id=%s: %d tasks to go\n", m.Name, m.Tier, m.ID, m.TargetTasks)
			})
		}),
	}
	add.Flags().StringVar(&tier, "tier", "B", "tier (B|A|S)")
	add.Flags().IntVar(&in.TargetTasks, "target", 0, "completions needed (defaults per tier)")
	add.Flags().StringSliceVar(&in.TargetCategories, "category", nil, "only completions in these categories count")

	complete := &cobra.Command{
		Use:   "complete MAP_ID",
		Short: "Claim a finished treasure map",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			m, err := a.engine.CompleteTreasureMap(ctx, args[0])
			if err != nil {
				return err
			}
			return a.out.emit(m, func(w io.Writer) {
				fmt.Fprintf(w, "Completed %s: %s\n", m.Name, formatReward(m.BigReward))
			})
		}),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List treasure maps",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(_ context.Context, a *app, _ []string) error {
			maps := a.engine.State().TreasureMaps
			return a.out.emit(maps, func(io.Writer) {
				a.out.table("ID\tNAME\tTIER\tSTATUS\tPROGRESS\tREWARD", func(tw *tabwriter.Writer) {
					for _, m := range maps {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
							m.ID, m.Name, m.Tier, m.Status, m.CompletedTasks, m.TargetTasks, formatReward(m.BigReward))
					}
				})
			})
		}),
	}
	cmd.AddCommand(add, complete, list)
	return cmd
}

func newClaimCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "claim", Short: "Vouchers earned from maps, gems and achievements"}
	use := &cobra.Command{
		Use:   "use CLAIM_ID",
		Short: "Redeem a voucher",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			c, err := a.engine.UseClaim(ctx, args[0])
			if err != nil {
				return err
			}
			return a.out.emit(c, func(w io.Writer) {
				fmt.Fprintf(w, "Redeemed %s. Enjoy!\n", c.Name)
			})
		}),
	}
	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List vouchers",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(_ context.Context, a *app, _ []string) error {
			var claims []model.Claim
			for _, c := range a.engine.State().Claims {
				if all || !c.Used {
					claims = append(claims, c)
				}
			}
			return a.out.emit(claims, func(io.Writer) {
				a.out.table("ID\tNAME\tTYPE\tSOURCE\tUSED", func(tw *tabwriter.Writer) {
					for _, c := range claims {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", c.ID, c.Name, c.Type, c.Source, c.Used)
					}
				})
			})
		}),
	}
	list.Flags().BoolVar(&all, "all", false, "include redeemed vouchers")
	cmd.AddCommand(use, list)
	return cmd
}
