package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lifequest/internal/gem"
	"lifequest/internal/world"
)

func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("amount must be a whole number: %q", s)
	}
	return n, nil
}

func printBalance(a *app, b world.Balance, headline string) error {
	return a.out.emit(b, func(w io.Writer) {
		fmt.Fprintln(w, headline)
		fmt.Fprintf(w, "Balance: %s, %d exp, %d tickets\n", a.out.wallet(b.Coins), b.Exp, b.Tickets)
	})
}

func newCoinsCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "coins", Short: "Credit or spend coins"}
	var reason string

	add := &cobra.Command{
		Use:   "add AMOUNT",
		Short: "Credit coins",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			n, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			b, err := a.engine.AddCoins(ctx, n, reason)
			if err != nil {
				return err
			}
			return printBalance(a, b, fmt.Sprintf("+%d coins", n))
		}),
	}
	spend := &cobra.Command{
		Use:   "spend AMOUNT",
		Short: "Spend coins",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			n, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			b, err := a.engine.SpendCoins(ctx, n, reason)
			if err != nil {
				return err
			}
			return printBalance(a, b, fmt.Sprintf("-%d coins", n))
		}),
	}
	for _, c := range []*cobra.Command{add, spend} {
		c.Flags().StringVar(&reason, "reason", "", "note stored in history")
	}
	cmd.AddCommand(add, spend)
	return cmd
}

func newExpCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "exp", Short: "Grant experience"}
	var reason string
	grant := &cobra.Command{
		Use:   "grant AMOUNT",
		Short: "Grant experience outside of tasks",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			n, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			b, err := a.engine.GrantExp(ctx, n, reason)
			if err != nil {
				return err
			}
			return printBalance(a, b, fmt.Sprintf("+%d exp", n))
		}),
	}
	grant.Flags().StringVar(&reason, "reason", "", "note stored in history")
	cmd.AddCommand(grant)
	return cmd
}

func newTicketCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "ticket", Short: "Buy and use game tickets"}
	var cost int
	buy := &cobra.Command{
		Use:   "buy",
		Short: "Exchange coins for a game ticket",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(ctx context.Context, a *app, _ []string) error {
			b, err := a.engine.ExchangeCoinsForGameTicket(ctx, cost)
			if err != nil {
				return err
			}
			return printBalance(a, b, "Bought a game ticket")
		}),
	}
	buy.Flags().IntVar(&cost, "cost", 0, "price in coins (defaults to game.ticket_cost)")
	use := &cobra.Command{
		Use:   "use",
		Short: "Spend one game ticket",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(ctx context.Context, a *app, _ []string) error {
			b, err := a.engine.UseGameTicket(ctx)
			if err != nil {
				return err
			}
			return printBalance(a, b, "Enjoy your game")
		}),
	}
	cmd.AddCommand(buy, use)
	return cmd
}

func newGemCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "gem", Short: "Manage the gem inventory"}
	var count int
	add := &cobra.Command{
		Use:   "add TYPE",
		Short: "Credit gems",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			r, err := a.engine.AddGems(ctx, gem.Type(strings.ToLower(args[0])), count)
			if err != nil {
				return err
			}
			return a.out.emit(r, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %d\n", r.Gem, r.Count)
			})
		}),
	}
	add.Flags().IntVarP(&count, "count", "n", 1, "number of gems")
	fuse := &cobra.Command{
		Use:   "fuse TYPE",
		Short: fmt.Sprintf("Fuse %d gems into a voucher", gem.FuseCost),
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			r, err := a.engine.FuseGem(ctx, gem.Type(strings.ToLower(args[0])))
			if err != nil {
				return err
			}
			return a.out.emit(r, func(w io.Writer) {
				fmt.Fprintf(w, "Fused %s: +%d exp, voucher %q (%s)\n", r.Gem, r.Exp, r.Claim.Name, r.Claim.ID)
				if r.Map != nil {
					fmt.Fprintf(w, "Treasure map discovered: %s (%s)\n", r.Map.Name, r.Map.Tier)
				}
				fmt.Fprintf(w, "%s left: %d\n", r.Gem, r.Remaining)
			})
		}),
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "Show gem counts",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(_ context.Context, a *app, _ []string) error {
			gems := a.engine.State().Gems
			return a.out.emit(gems, func(w io.Writer) {
				for _, e := range gem.DefaultTable {
					fmt.Fprintf(w, "%-9s %d\n", e.Gem, gems[string(e.Gem)])
				}
			})
		}),
	}
	cmd.AddCommand(add, fuse, list)
	return cmd
}
