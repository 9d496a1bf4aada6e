package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/menuscan/menuscan/internal/compare"
	"github.com/menuscan/menuscan/internal/config"
	"github.com/menuscan/menuscan/internal/database"
	"github.com/menuscan/menuscan/internal/dataset"
	"github.com/menuscan/menuscan/internal/validator"
)

// NewCompareCmd creates the compare command.
// This command measures the effectiveness of a cleaning pass by
// validating both snapshots and pairing the results constraint by
// constraint.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [original] [cleaned]",
		Short: "Compare an original dataset with its cleaned version",
		Long: `Compare validates two snapshots of the same dataset and shows, per
constraint, how many violations the cleaning pass fixed, left
untouched, or introduced.

The outlier threshold for the "Uncapped Outliers Remain" constraint is
frozen from the original snapshot's price statistics, so the cleaned
run is measured against the original's distribution rather than its
own shifted one.

Each constraint's movement is classified as:
  CLEAN     - neither run found violations
  FIXED     - cleaning removed every violation
  PARTIAL   - violations decreased but some remain
  UNCHANGED - the count did not move
  REGRESSED - cleaning introduced violations

Examples:
  # Compare a CSV dataset with its cleaned version
  menuscan compare ./data ./data-cleaned

  # Compare two SQLite snapshots with JSON output
  menuscan compare --json menus.db menus-cleaned.db

  # List past validation runs from the history database
  menuscan compare --list

  # List past runs for a single dataset
  menuscan compare --list --dataset data-cleaned`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List past validation runs instead of comparing")
	cmd.Flags().StringP("dataset", "d", "",
		"Restrict --list to runs of a single dataset")

	// Validation tuning flags (shared with validate)
	cmd.Flags().Float64P("sigma", "s", validator.DefaultSigmaMultiplier,
		"Standard deviation multiplier for price outlier detection")
	cmd.Flags().IntP("samples", "n", validator.DefaultSampleSize,
		"Maximum sample violations kept per constraint (0 for counts only)")
	cmd.Flags().Int("min-year", validator.DefaultMinYear,
		"Earliest plausible menu year")
	cmd.Flags().Int("max-year", 0,
		"Latest plausible menu year (0 means the current year)")
	cmd.Flags().IntP("concurrency", "p", validator.DefaultConcurrency,
		"Number of constraints evaluated in parallel")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .menuscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON comparison (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown comparison (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write comparison to specified file path (creates directories if needed)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list first; it needs the database but no datasets.
	listRuns, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listRuns {
		datasetFilter, err := cmd.Flags().GetString("dataset")
		if err != nil {
			return err
		}
		return listRunHistory(context.Background(), datasetFilter)
	}

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.CleanedPath == "" {
		return errors.New("two datasets are required (original and cleaned), or use --list for run history")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCompare(ctx, cfg, logger)
}

// listRunHistory lists stored validation runs from the history database.
func listRunHistory(ctx context.Context, datasetFilter string) error {
	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(ctx, datasetFilter)
	if err != nil {
		return fmt.Errorf("failed to list validation runs: %w", err)
	}

	if len(runs) == 0 {
		if datasetFilter != "" {
			fmt.Printf("No validation runs found for %s\n", datasetFilter)
		} else {
			fmt.Println("No validation runs found in the database.")
		}
		fmt.Println("\nUse 'menuscan validate <dataset>' to validate and record a run.")
		return nil
	}

	fmt.Printf("Validation runs (%d):\n\n", len(runs))
	fmt.Printf("  %-6s  %-20s  %-24s  %-10s  %s\n", "ID", "Date", "Dataset", "Violations", "Failed")
	fmt.Println("  " + strings.Repeat("-", 76))

	for _, meta := range runs {
		fmt.Printf("  %-6d  %-20s  %-24s  %-10d  %d\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			truncateLabel(meta.Dataset, 24),
			meta.TotalViolations,
			meta.FailedConstraints,
		)
	}

	fmt.Println("\nUse 'menuscan compare <original> <cleaned>' to compare two snapshots.")
	return nil
}

// truncateLabel shortens a dataset label for the history listing.
func truncateLabel(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// runCompare loads both snapshots and runs the comparison.
func runCompare(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("loading original dataset", "path", cfg.OriginalPath)
	original, err := dataset.Load(ctx, cfg.OriginalPath, filepath.Base(cfg.OriginalPath))
	if err != nil {
		return fmt.Errorf("failed to load original dataset: %w", err)
	}

	logger.Info("loading cleaned dataset", "path", cfg.CleanedPath)
	cleaned, err := dataset.Load(ctx, cfg.CleanedPath, filepath.Base(cfg.CleanedPath))
	if err != nil {
		return fmt.Errorf("failed to load cleaned dataset: %w", err)
	}

	v := validator.New(append(cfg.ValidatorOptions(), validator.WithLogger(logger))...)
	comparator := compare.New(v, compare.WithLogger(logger))

	fmt.Printf("Comparing %s against %s...\n", cleaned.Label, original.Label)
	startTime := time.Now()

	comparison, err := comparator.Compare(ctx, original, cleaned)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Comparison completed in %s\n", elapsed.Round(time.Millisecond))

	output, closeOutput, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := newReportWriter(cfg, output)
	if _, err := writer.WriteComparison(comparison); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}
	return nil
}
