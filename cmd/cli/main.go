package main

import (
	"context"
	"fmt"
	"os"

	"k9stats/adapters/file"
	"k9stats/adapters/postgres"
	"k9stats/adapters/stats"
	"k9stats/app"
	"k9stats/domain/core"
	"k9stats/domain/model"
	"k9stats/domain/table"
	"k9stats/internal"
	"k9stats/internal/config"
	"k9stats/internal/report"
	"k9stats/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env for DATABASE_URL and analysis defaults.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "k9stats",
		Short: "Survey analysis of puppy training practices and adult dog behavior",
	}

	rootCmd.AddCommand(
		newScreenCmd(),
		newEvaluateCmd(),
		newProfileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScreenCmd() *cobra.Command {
	var dataPath, predictor, htmlPath string
	var outcomes []string
	var persist bool

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Fisher-exact screening of many outcomes against one predictor, with BH correction",
		Long: `Screen tests each outcome against a single predictor with Fisher's exact
test, then adjusts all p-values with the Benjamini-Hochberg procedure.

Example: k9stats screen --data survey.csv --predictor attended_puppy_class --outcomes stranger_aggression,separation_anxiety`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(dataPath)
			if err != nil {
				return err
			}

			records, err := app.Screen(cmd.Context(), tbl, predictor, outcomes)
			if err != nil {
				return err
			}

			md := report.RenderScreening(fmt.Sprintf("Screening vs %s", predictor), records)
			fmt.Println(md)

			if persist {
				if err := persistScreening(cmd.Context(), records); err != nil {
					return err
				}
			}
			return writeHTML(htmlPath, md)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "survey file (.csv or .xlsx)")
	cmd.Flags().StringVar(&predictor, "predictor", "", "predictor column name")
	cmd.Flags().StringSliceVar(&outcomes, "outcomes", nil, "outcome column names, in report order")
	cmd.Flags().StringVar(&htmlPath, "html", "", "also write the report as HTML to this path")
	cmd.Flags().BoolVar(&persist, "persist", false, "save results to the configured result store")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("predictor")
	_ = cmd.MarkFlagRequired("outcomes")
	return cmd
}

func newEvaluateCmd() *cobra.Command {
	var dataPath, htmlPath string
	var outcomes, predictors []string
	var threshold, parallelism int
	var persist bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Fit one regression per outcome with sparse-predictor filtering and VIF diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(dataPath)
			if err != nil {
				return err
			}

			evaluator := app.NewEvaluator(
				app.WithThreshold(threshold),
				app.WithParallelism(parallelism),
				app.WithLogger(internal.DefaultLogger),
			)
			batch, err := evaluator.Evaluate(cmd.Context(), tbl, outcomes, predictors)
			if err != nil {
				return err
			}

			md := report.RenderBatch("Model results", batch)
			fmt.Println(md)

			if persist {
				if err := persistBatch(cmd.Context(), batch); err != nil {
					return err
				}
			}
			return writeHTML(htmlPath, md)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "survey file (.csv or .xlsx)")
	cmd.Flags().StringSliceVar(&outcomes, "outcomes", nil, "outcome column names")
	cmd.Flags().StringSliceVar(&predictors, "predictors", nil, "predictor column names")
	cmd.Flags().IntVar(&threshold, "threshold", stats.DefaultSparseThreshold, "minimum contingency cell count per categorical predictor")
	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "concurrent outcome fits")
	cmd.Flags().StringVar(&htmlPath, "html", "", "also write the report as HTML to this path")
	cmd.Flags().BoolVar(&persist, "persist", false, "save results to the configured result store")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("outcomes")
	_ = cmd.MarkFlagRequired("predictors")
	return cmd
}

func newProfileCmd() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Summarize each column of a survey file",
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(dataPath)
			if err != nil {
				return err
			}
			for _, p := range stats.ProfileTable(tbl) {
				if p.LevelCounts != nil {
					fmt.Printf("%-24s %-12s missing=%.1f%% levels=%v\n",
						p.Name, p.Type, 100*p.MissingRate, p.LevelCounts)
					continue
				}
				fmt.Printf("%-24s %-12s missing=%.1f%% mean=%.3f sd=%.3f median=%.3f [%.3f, %.3f]\n",
					p.Name, p.Type, 100*p.MissingRate, p.Mean, p.StdDev, p.Median, p.Min, p.Max)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "survey file (.csv or .xlsx)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func loadTable(path string) (*table.Table, error) {
	return file.NewDataReader(path).ReadTable()
}

func writeHTML(path, md string) error {
	if path == "" {
		return nil
	}
	return os.WriteFile(path, report.ToHTML(md), 0o644)
}

func persistScreening(ctx context.Context, records []model.ScreeningRecord) error {
	repo, runID, err := openResultStore(ctx)
	if err != nil {
		return err
	}
	if err := repo.SaveScreening(ctx, runID, records); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved screening results under run %s\n", runID)
	return nil
}

func persistBatch(ctx context.Context, batch *model.BatchResult) error {
	repo, runID, err := openResultStore(ctx)
	if err != nil {
		return err
	}
	if err := repo.SaveBatch(ctx, runID, batch); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved model results under run %s\n", runID)
	return nil
}

func openResultStore(ctx context.Context) (ports.ResultRepository, core.RunID, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	if cfg.Database.URL == "" {
		return nil, "", fmt.Errorf("persistence requested but DATABASE_URL is not set")
	}
	db, err := postgres.Connect(cfg.Database.URL)
	if err != nil {
		return nil, "", err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, "", err
	}
	return postgres.NewResultRepository(db), core.RunID(core.NewID()), nil
}
