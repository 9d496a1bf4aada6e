package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/menuscan/menuscan/internal/config"
	"github.com/menuscan/menuscan/internal/database"
	"github.com/menuscan/menuscan/internal/dataset"
	"github.com/menuscan/menuscan/internal/model"
	"github.com/menuscan/menuscan/internal/report"
	"github.com/menuscan/menuscan/internal/validator"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [dataset]",
		Short: "Validate the integrity of a menus dataset",
		Long: `Validate runs the full constraint battery against a dataset snapshot.

The dataset is either a directory containing Menu.csv, MenuPage.csv,
MenuItem.csv, and Dish.csv, or a SQLite database with the equivalent
tables. Missing tables are tolerated: constraints that need them
report UNAVAILABLE instead of failing the whole run.

The battery covers:
- Referential integrity (orphaned items, pages, and dish references)
- Price sanity (negative prices, inverted ranges, statistical outliers)
- Name hygiene (empty names, duplicates, inconsistent casing)
- Count consistency (stored page and dish counts vs. actual rows)

Examples:
  # Validate a CSV dataset directory
  menuscan validate ./data

  # Validate a SQLite database
  menuscan validate menus.db

  # Output JSON report
  menuscan validate --json ./data

  # Write a Markdown report to a file
  menuscan validate --markdown -o report.md ./data

  # Tighter outlier detection and more sample rows
  menuscan validate --sigma 2.5 --samples 10 ./data`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidateCmd,
	}

	// Validation tuning flags
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
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not save this run to the history database")

	return cmd
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	cfg.Verbose = getVerboseFlag(cmd)
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runValidate(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// optional configuration file. Flags win over file values.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.SigmaMultiplier, err = cmd.Flags().GetFloat64("sigma")
	if err != nil {
		return nil, err
	}

	cfg.SampleSize, err = cmd.Flags().GetInt("samples")
	if err != nil {
		return nil, err
	}

	cfg.MinYear, err = cmd.Flags().GetInt("min-year")
	if err != nil {
		return nil, err
	}

	cfg.MaxYear, err = cmd.Flags().GetInt("max-year")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// The compare command shares this builder but has no --no-save flag.
	if cmd.Flags().Lookup("no-save") != nil {
		cfg.NoSave, err = cmd.Flags().GetBool("no-save")
		if err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		cfg.OriginalPath = args[0]
	}
	if len(args) > 1 {
		cfg.CleanedPath = args[1]
	}

	// Merge the config file underneath the flags.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.ApplyTo(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// runValidate loads the dataset and runs the constraint battery.
func runValidate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("loading dataset", "path", cfg.OriginalPath)

	snap, err := dataset.Load(ctx, cfg.OriginalPath, filepath.Base(cfg.OriginalPath))
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	// Prerequisite check: report what the snapshot actually contains
	// before running the battery, so a missing table is visible even
	// when the report format hides UNAVAILABLE details.
	for _, table := range model.Tables {
		if snap.Has(table) {
			logger.Info("table loaded", "table", string(table), "rows", snap.RowCount(table))
		} else {
			logger.Warn("table missing from dataset", "table", string(table))
		}
	}

	v := validator.New(append(cfg.ValidatorOptions(), validator.WithLogger(logger))...)

	fmt.Printf("Validating %s...\n", snap.Label)
	startTime := time.Now()

	validationReport, err := v.Validate(ctx, snap)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Validation completed in %s\n", elapsed.Round(time.Millisecond))

	if err := outputReport(cfg, validationReport); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if !cfg.NoSave {
		if err := saveRun(ctx, cfg, validationReport, logger); err != nil {
			logger.Error("failed to save validation run", "error", err)
		}
	}

	return nil
}

// outputReport writes the validation report in the requested format.
func outputReport(cfg *config.Config, validationReport *model.ValidationReport) error {
	output, closeOutput, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := newReportWriter(cfg, output)
	_, err = writer.WriteReport(validationReport)
	return err
}

// openReportOutput returns the report destination, creating parent
// directories for file output. The returned func closes file output
// and is a no-op for stdout.
func openReportOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newReportWriter selects the report writer for the configured format.
func newReportWriter(cfg *config.Config, output *os.File) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// saveRun saves the validation report to the history database.
func saveRun(ctx context.Context, cfg *config.Config, validationReport *model.ValidationReport, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, validationReport)
	if err != nil {
		return fmt.Errorf("failed to save validation run: %w", err)
	}

	logger.Info("validation run saved", "id", id, "dataset", validationReport.Dataset, "dir", cfg.DBDir)
	return nil
}
