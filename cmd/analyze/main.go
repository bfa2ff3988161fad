// Command analyze scores a returns-panel CSV: Sharpe ratio, PSR, DSR and the
// HLZ multiple-testing-adjusted p-value per strategy. File layout: a header
// row, one strategy per data row, first column the strategy name, optional
// second column "Strategy_class", remaining columns per-period returns.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"sharpestat/adapters/postgres"
	"sharpestat/adapters/report"
	"sharpestat/adapters/stats/deflation"
	"sharpestat/adapters/stats/haircut"
	sharpecalc "sharpestat/adapters/stats/sharpe"
	"sharpestat/app"
	"sharpestat/domain/core"
	"sharpestat/domain/returns"
	"sharpestat/domain/sharpe"
	"sharpestat/internal/rng"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sharpestat",
		Short: "Multiple-testing-aware Sharpe ratio evaluation",
	}

	rootCmd.AddCommand(newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var (
		periods     int
		simulations int
		seed        int64
		parallel    int64
		outCSV      string
		outXLSX     string
		persist     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [returns-csv]",
		Short: "Score every strategy in a returns panel",
		Long: `Score every strategy in a returns panel: SR, its one-tailed p-value,
the Lo-annualized SR, PSR, DSR and the Harvey-Liu-Zhu adjusted p-value.

Example: sharpestat analyze returns.csv --periods 52 --simulations 1000 --seed 42 --out-csv stats.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			panel, classes, err := readPanelCSV(args[0])
			if err != nil {
				return err
			}

			calc := sharpecalc.NewCalculator()
			service := app.NewAnalysisService(
				calc,
				deflation.NewEngine(calc),
				haircut.NewSimulator(calc, rng.NewAdapter()),
				app.AnalysisConfig{
					PeriodsPerYear: periods,
					NumSimulations: simulations,
					Seed:           seed,
					MaxParallel:    parallel,
				},
			)

			run, err := service.Analyze(ctx, panel, classes)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if outCSV != "" {
				if err := report.SaveCSV(outCSV, run); err != nil {
					return err
				}
			}
			if outXLSX != "" {
				if err := report.SaveExcel(outXLSX, run); err != nil {
					return err
				}
			}
			if outCSV == "" && outXLSX == "" {
				if err := report.WriteCSV(os.Stdout, run); err != nil {
					return err
				}
			}

			if persist {
				if err := persistRun(ctx, run); err != nil {
					return err
				}
			}

			fmt.Fprintf(os.Stderr, "run %s: %d strategies, avg correlation %.4f, expected max SR %.4f\n",
				run.RunID, run.NumTrials, run.AvgCorrelation, run.ExpectedMaxSR)
			return nil
		},
	}

	cmd.Flags().IntVar(&periods, "periods", 52, "returns sampling frequency per year")
	cmd.Flags().IntVar(&simulations, "simulations", 1000, "HLZ Monte-Carlo simulation count")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for reproducible runs")
	cmd.Flags().Int64Var(&parallel, "parallel", 4, "max concurrent strategy evaluations")
	cmd.Flags().StringVar(&outCSV, "out-csv", "", "write statistics table to this CSV file")
	cmd.Flags().StringVar(&outXLSX, "out-xlsx", "", "write statistics workbook to this Excel file")
	cmd.Flags().BoolVar(&persist, "persist", false, "store the run via DATABASE_URL")

	return cmd
}

func readPanelCSV(path string) (*returns.Panel, map[core.StrategyKey]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%s: need a header row and at least one strategy", path)
	}

	header := records[0]
	firstReturnCol := 1
	hasClass := len(header) > 1 && strings.EqualFold(header[1], "Strategy_class")
	if hasClass {
		firstReturnCol = 2
	}

	panel := returns.NewPanel()
	classes := make(map[core.StrategyKey]string)

	for line, record := range records[1:] {
		if len(record) <= firstReturnCol {
			return nil, nil, fmt.Errorf("%s line %d: no return observations", path, line+2)
		}

		key, err := core.ParseStrategyKey(record[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", path, line+2, err)
		}

		series := make(returns.Series, 0, len(record)-firstReturnCol)
		for col, cell := range record[firstReturnCol:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d col %d: %w", path, line+2, col+firstReturnCol+1, err)
			}
			series = append(series, v)
		}

		if err := panel.Add(key, series); err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", path, line+2, err)
		}
		if hasClass {
			classes[key] = record[1]
		}
	}

	return panel, classes, nil
}

func persistRun(ctx context.Context, run *sharpe.AnalysisRun) error {
	// .env is optional; a missing file just means the DSN comes from the
	// process environment.
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("--persist requires DATABASE_URL")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewStatisticsRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return repo.SaveRun(ctx, run)
}
