package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ore/internal/amqp"
	"ore/internal/config"
	"ore/internal/core"
	"ore/internal/log"
	"ore/internal/render"
	"ore/internal/sheets"
	"ore/internal/sheets/google"
	"ore/internal/storage"
)

type rootFlags struct {
	hours         []float64
	days          []string
	percent       []float64
	algorithm     string
	resolution    float64
	normalize     bool
	fillRemainder bool
	strict        bool
	sum           bool
	showRemainder bool
	showActual    bool
	csvPath       string
	jsonPath      string
	save          bool
	sheet         bool
}

// NewRootCommand builds the ore command tree. The root command runs an
// allocation; `ore history` browses saved plans.
func NewRootCommand(cfg *config.Config, logger *log.Logger) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "ore",
		Short: "Distribute daily working hours across weighted categories",
		Long: `ore splits each day's working hours across weighted categories,
snapping every value to a bookable resolution grid (half hours by
default). Three algorithms are available: proportional rounds each
day independently, sequential fills categories one after another
against whole-week quotas, and optimal runs a largest-remainder
assignment that never overbooks a day.`,
		Example: `  ore --hours 8,8,8,8,8
  ore --hours 0,2,7.5,7.5,7.5 --percent 0.6,0.4 --algorithm proportional --sum
  ore --hours 8,4 --days mon,fri --percent 0.7,0.2 --normalize --csv plan.csv
  ore --hours 8,8,8,8,8 --save --sheet`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAllocate(cmd, cfg, logger, flags)
		},
	}

	cmd.Flags().Float64SliceVar(&flags.hours, "hours", nil, "daily hour totals, in order (required)")
	cmd.Flags().StringSliceVar(&flags.days, "days", nil, "day labels matching --hours (default monday onward)")
	cmd.Flags().Float64SliceVarP(&flags.percent, "percent", "p", cfg.Percent, "category weights as decimals")
	cmd.Flags().StringVarP(&flags.algorithm, "algorithm", "a", cfg.Algorithm, "allocation algorithm: proportional, sequential or optimal")
	cmd.Flags().Float64VarP(&flags.resolution, "resolution", "r", cfg.Resolution, "grid step in hours; must evenly divide 1.0")
	cmd.Flags().BoolVar(&flags.normalize, "normalize", false, "rescale weights to sum to 1.0 before allocating")
	cmd.Flags().BoolVar(&flags.fillRemainder, "fill-remainder", false, "push unallocated hours into the last category")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail if any remainder is left after filling")
	cmd.Flags().BoolVarP(&flags.sum, "sum", "s", false, "append Sum and Delta rows to the table")
	cmd.Flags().BoolVar(&flags.showRemainder, "show-remainder", false, "append a Remainder row when hours were left unallocated")
	cmd.Flags().BoolVar(&flags.showActual, "show-actual-percent", false, "append the achieved percentage per category (implies --sum)")
	cmd.Flags().StringVar(&flags.csvPath, "csv", "", "also write the plan as CSV to this file")
	cmd.Flags().StringVar(&flags.jsonPath, "json", "", "also write the plan as JSON to this file")
	cmd.Flags().BoolVar(&flags.save, "save", false, "save the plan to the history database")
	cmd.Flags().BoolVar(&flags.sheet, "sheet", false, "append the plan to the configured Google Sheet")

	cmd.MarkFlagRequired("hours")

	cmd.AddCommand(newHistoryCommand(cfg))

	return cmd
}

func runAllocate(cmd *cobra.Command, cfg *config.Config, logger *log.Logger, flags *rootFlags) error {
	plan, err := buildPlan(flags)
	if err != nil {
		return err
	}

	logger.Debug("Plan computed",
		log.FieldStrategy, plan.Strategy,
		log.FieldDays, len(plan.Rows),
		log.FieldCategories, len(plan.Weights),
		log.FieldRemainder, plan.Remainder)

	opts := render.Options{
		Sum:               flags.sum || flags.showActual,
		ShowRemainder:     flags.showRemainder,
		ShowActualPercent: flags.showActual,
	}
	if err := render.Table(cmd.OutOrStdout(), plan, opts); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	return exportPlan(cmd.Context(), cfg, logger, flags, plan, opts)
}

func buildPlan(flags *rootFlags) (*core.Plan, error) {
	schedule, err := core.NewSchedule(flags.days, flags.hours)
	if err != nil {
		return nil, err
	}

	strategy, err := core.ParseStrategy(flags.algorithm)
	if err != nil {
		return nil, err
	}

	weights := core.Weights(flags.percent)
	normalized := false
	if flags.normalize {
		weights, err = weights.Normalized()
		if err != nil {
			return nil, err
		}
		normalized = true
	}

	plan, err := core.Allocate(schedule, weights, core.Resolution(flags.resolution), strategy)
	if err != nil {
		return nil, err
	}
	plan.Normalized = normalized

	if flags.fillRemainder || flags.strict {
		if err := plan.FillRemainder(flags.strict); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// exportPlan runs the requested side outputs concurrently: CSV and
// JSON files, the history database, and the Google Sheet. When AMQP is
// configured, a saved plan is synced asynchronously by the worker
// instead of being pushed to the sheet inline.
func exportPlan(ctx context.Context, cfg *config.Config, logger *log.Logger, flags *rootFlags, plan *core.Plan, opts render.Options) error {
	g, ctx := errgroup.WithContext(ctx)

	if flags.csvPath != "" {
		g.Go(func() error {
			return writeFile(flags.csvPath, func(f *os.File) error {
				return render.CSV(f, plan, opts)
			})
		})
	}

	if flags.jsonPath != "" {
		g.Go(func() error {
			return writeFile(flags.jsonPath, func(f *os.File) error {
				return render.JSON(f, plan)
			})
		})
	}

	if flags.save || flags.sheet {
		g.Go(func() error {
			return persistPlan(ctx, cfg, logger, flags, plan)
		})
	}

	return g.Wait()
}

// persistPlan handles --save and --sheet, which share a plan id: a
// saved-and-sheeted plan is marked synced so the worker skips it.
func persistPlan(ctx context.Context, cfg *config.Config, logger *log.Logger, flags *rootFlags, plan *core.Plan) error {
	var (
		repo   *storage.SQLiteRepository
		planID int64
	)

	if flags.save {
		var err error
		repo, err = storage.NewSQLiteRepository(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open history database: %w", err)
		}
		defer repo.Close()

		planID, err = repo.SavePlan(ctx, plan)
		if err != nil {
			return fmt.Errorf("save plan: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved plan #%d\n", planID)

		// Hand saved plans to the worker unless the sheet is written
		// inline below.
		if cfg.AMQPURL != "" && !flags.sheet {
			client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				return fmt.Errorf("connect AMQP: %w", err)
			}
			defer client.Close()
			if err := client.PublishPlanSync(ctx, planID); err != nil {
				return fmt.Errorf("publish sync message: %w", err)
			}
		}
	}

	if flags.sheet {
		writer, err := google.NewFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("sheets client: %w", err)
		}
		ref, err := writer.AppendPlan(ctx, sheets.PlanRecord{
			ID:        planID,
			CreatedAt: time.Now(),
			Plan:      plan,
		})
		if err != nil {
			return fmt.Errorf("append to sheet: %w", err)
		}
		logger.Info("Plan exported to sheet", log.FieldPlanID, planID, log.FieldSheetsRef, ref)

		if flags.save {
			if err := repo.MarkSynced(ctx, planID); err != nil {
				return fmt.Errorf("mark synced: %w", err)
			}
		}
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
