package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifequest/internal/model"
	"lifequest/internal/world"
)

func newTaskCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Register, complete and list tasks",
	}
	cmd.AddCommand(newTaskAddCmd(f), newTaskCompleteCmd(f), newTaskRemoveCmd(f), newTaskListCmd(f), newTaskTemplatesCmd(f))
	return cmd
}

func newTaskAddCmd(f *rootFlags) *cobra.Command {
	var (
		in                    world.TaskInput
		repeatable            bool
		life, sanity, hunger  int
		needLife, needSanity  int
		needHunger, needCoins int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a task from a template or from flags",
		Example: `  lifequest task add --template read_30
  lifequest task add --title "Laundry" --category life --difficulty 2 --minutes 20 --repeatable`,
		Args: cobra.NoArgs,
	}
	fl := cmd.Flags()
	fl.StringVar(&in.TemplateID, "template", "", "catalog template id")
	fl.StringVar(&in.Title, "title", "", "task title")
	fl.StringVar(&in.Category, "category", "", "category (study, fitness, life, ...)")
	fl.StringVar(&in.Subtype, "subtype", "", "subtype within the category")
	fl.StringVar(&in.Kind, "kind", "", "combo kind (defaults to the category)")
	fl.IntVar(&in.Difficulty, "difficulty", 0, "difficulty 1-5")
	fl.StringVar(&in.Tier, "tier", "", "named difficulty (trivial|easy|normal|hard|epic)")
	fl.IntVar(&in.Minutes, "minutes", 0, "expected minutes")
	fl.BoolVar(&repeatable, "repeatable", false, "task can be completed every day")
	fl.IntVar(&in.Priority, "priority", 0, "priority")
	fl.StringSliceVar(&in.Tags, "tag", nil, "tag (repeatable)")
	fl.StringSliceVar(&in.Prerequisites, "requires-achievement", nil, "achievement key that must be unlocked first")
	fl.IntVar(&life, "life", 0, "life change on completion")
	fl.IntVar(&sanity, "sanity", 0, "sanity change on completion")
	fl.IntVar(&hunger, "hunger", 0, "hunger change on completion")
	fl.IntVar(&needLife, "need-life", 0, "minimum life to attempt")
	fl.IntVar(&needSanity, "need-sanity", 0, "minimum sanity to attempt")
	fl.IntVar(&needHunger, "need-hunger", 0, "minimum hunger to attempt")
	fl.IntVar(&needCoins, "need-coins", 0, "minimum coins to attempt")

	cmd.RunE = withApp(f, func(ctx context.Context, a *app, _ []string) error {
		if cmd.Flags().Changed("repeatable") {
			in.Repeatable = &repeatable
		}
		if cmd.Flags().Changed("life") || cmd.Flags().Changed("sanity") || cmd.Flags().Changed("hunger") {
			in.Effect = &model.StatDelta{Life: life, Sanity: sanity, Hunger: hunger}
		}
		req := model.Requirements{Life: needLife, Sanity: needSanity, Hunger: needHunger, Coins: needCoins}
		if req != (model.Requirements{}) {
			in.Requirements = &req
		}
		t, err := a.engine.RegisterTask(ctx, in)
		if err != nil {
			return err
		}
		return a.out.emit(t, func(w io.Writer) {
			fmt.Fprintf(w, "Added %q [%s] id=%s\n", t.Title, t.Category, t.ID)
			fmt.Fprintf(w, "Reward: %d coins, %d exp\n", t.CoinsReward, t.Exp)
		})
	})
	return cmd
}

func newTaskCompleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "complete TASK_ID",
		Short: "Complete a task and collect its reward",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			c, err := a.engine.CompleteTask(ctx, args[0])
			if err != nil {
				return err
			}
			return a.out.emit(c, func(w io.Writer) {
				fmt.Fprintf(w, "+%d coins, +%d exp", c.RewardCoins, c.RewardExp)
				if c.ComboBonus > 0 {
					fmt.Fprintf(w, " (combo x%d, +%.0f%%)", c.ComboCount, c.ComboBonus*100)
				}
				fmt.Fprintln(w)
				if c.StreakActive {
					fmt.Fprintf(w, "Streak: %d days\n", c.Streak.Count)
				}
				if c.GemDrop != "" {
					fmt.Fprintf(w, "Found a %s gem\n", c.GemDrop)
				}
				for _, u := range c.Unlocked {
					fmt.Fprintf(w, "Achievement unlocked: %s (%s)\n", u.Name, formatReward(u.Reward))
				}
				for _, m := range c.MapsCreated {
					fmt.Fprintf(w, "Treasure map discovered: %s (%s)\n", m.Name, m.Tier)
				}
			})
		}),
	}
}

func newTaskRemoveCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "remove TASK_ID",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, a *app, args []string) error {
			if err := a.engine.RemoveTask(ctx, args[0]); err != nil {
				return err
			}
			return a.out.emit(map[string]string{"removed": args[0]}, func(w io.Writer) {
				fmt.Fprintln(w, "Removed", args[0])
			})
		}),
	}
}

func newTaskListCmd(f *rootFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&all, "all", false, "include finished one-off tasks")
	cmd.RunE = withApp(f, func(_ context.Context, a *app, _ []string) error {
		var tasks []model.Task
		for _, t := range a.engine.Tasks() {
			if all || t.Repeatable || t.Status == model.StatusTodo {
				tasks = append(tasks, t)
			}
		}
		return a.out.emit(tasks, func(io.Writer) {
			a.out.table("ID\tTITLE\tCATEGORY\tSTATUS\tREWARD\tSTREAK\tEFFECT", func(tw *tabwriter.Writer) {
				for _, t := range tasks {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%dc/%de\t%d\t%s\n",
						t.ID, t.Title, t.Category, t.Status, t.CoinsReward, t.Exp, t.Streak.Count, formatDelta(t.Effect))
				}
			})
		})
	})
	return cmd
}

func newTaskTemplatesCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List catalog task templates",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(_ context.Context, a *app, _ []string) error {
			tpls := a.engine.Catalog().Tasks
			return a.out.emit(tpls, func(io.Writer) {
				a.out.table("ID\tTITLE\tCATEGORY\tDIFFICULTY\tMINUTES", func(tw *tabwriter.Writer) {
					for _, t := range tpls {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", t.ID, t.Title, t.Category, t.ResolvedDifficulty(), t.Minutes)
					}
				})
			})
		}),
	}
}
