package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ore/internal/config"
	"ore/internal/render"
	"ore/internal/storage"
)

func newHistoryCommand(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved allocation plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewSQLiteRepository(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer repo.Close()

			plans, err := repo.ListPlans(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved plans.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCreated\tAlgorithm\tDays\tCategories\tHours\tSynced")
			for _, p := range plans {
				synced := "-"
				if p.Synced {
					synced = "yes"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%.2f\t%s\n",
					p.ID, p.CreatedAt.Local().Format("2006-01-02 15:04"),
					p.Strategy, p.Days, p.Categories, p.TotalHours, synced)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of plans to list")

	cmd.AddCommand(newHistoryShowCommand(cfg))

	return cmd
}

func newHistoryShowCommand(cfg *config.Config) *cobra.Command {
	var (
		sum           bool
		showRemainder bool
		showActual    bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid plan id %q", args[0])
			}

			repo, err := storage.NewSQLiteRepository(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer repo.Close()

			stored, err := repo.GetPlan(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Plan #%d  %s  %s\n\n",
				stored.ID, stored.CreatedAt.Local().Format("2006-01-02 15:04"), stored.Plan.Strategy)

			return render.Table(cmd.OutOrStdout(), stored.Plan, render.Options{
				Sum:               sum || showActual,
				ShowRemainder:     showRemainder,
				ShowActualPercent: showActual,
			})
		},
	}

	cmd.Flags().BoolVarP(&sum, "sum", "s", false, "append Sum and Delta rows to the table")
	cmd.Flags().BoolVar(&showRemainder, "show-remainder", false, "append a Remainder row when hours were left unallocated")
	cmd.Flags().BoolVar(&showActual, "show-actual-percent", false, "append the achieved percentage per category (implies --sum)")

	return cmd
}
