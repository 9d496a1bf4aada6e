package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/menuscan/menuscan/internal/validator"
)

// AppName is the application name used for XDG directory paths.
const AppName = "menuscan"

// Config holds all configuration options for a menuscan run.
// It is populated from the optional config file and then from CLI
// flags (flags win), and passed through the application explicitly
// rather than via global state.
//
// Design decision: a single flat struct instead of nested sub-configs.
// The option count is small, and a flat struct keeps flag wiring and
// file merging trivially readable.
type Config struct {
	// OriginalPath is the dataset to validate, or the pre-cleaning
	// snapshot in a comparison. A directory of CSV files or a SQLite
	// database.
	OriginalPath string

	// CleanedPath is the post-cleaning snapshot for comparisons.
	CleanedPath string

	// SigmaMultiplier is the k of the mean + k*stddev outlier rule.
	SigmaMultiplier float64

	// SampleSize is how many example violations each constraint result
	// carries in reports. Zero means counts only.
	SampleSize int

	// MinYear and MaxYear bound plausible menu dates. MaxYear of zero
	// means the current year. The dataset's historical range is not
	// derivable from the data itself, so the bounds are configuration.
	MinYear int
	MaxYear int

	// Concurrency is how many constraints evaluate in parallel.
	Concurrency int

	// Verbose enables debug-level logging.
	Verbose bool

	// JSONReport and MarkdownReport select the output format. Both
	// false means the human-readable text report. Mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit config file path. Empty means
	// search for .menuscan in the current and home directories.
	ConfigFilePath string

	// NoSave disables persisting the run to the history database.
	NoSave bool

	// DBDir is the directory of the run-history database. Defaults to
	// the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values. Defaults live on the
// validator's constants so the engine and the CLI can never disagree
// about them.
func NewConfig() *Config {
	return &Config{
		SigmaMultiplier: validator.DefaultSigmaMultiplier,
		SampleSize:      validator.DefaultSampleSize,
		MinYear:         validator.DefaultMinYear,
		Concurrency:     validator.DefaultConcurrency,
		DBDir:           XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for menuscan, where the
// run-history database lives.
// On Linux: ~/.local/share/menuscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem
// found as a sentinel error.
func (c *Config) Validate() error {
	if c.OriginalPath == "" {
		return ErrNoDataset
	}
	if c.SigmaMultiplier <= 0 {
		return ErrInvalidSigma
	}
	if c.SampleSize < 0 {
		return ErrInvalidSampleSize
	}
	if c.MinYear <= 0 {
		return ErrInvalidYearBounds
	}
	if c.MaxYear != 0 && c.MaxYear < c.MinYear {
		return ErrInvalidYearBounds
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// ValidatorOptions converts the configuration into engine options.
func (c *Config) ValidatorOptions() []validator.Option {
	return []validator.Option{
		validator.WithSigmaMultiplier(c.SigmaMultiplier),
		validator.WithSampleSize(c.SampleSize),
		validator.WithDateBounds(c.MinYear, c.MaxYear),
		validator.WithConcurrency(c.Concurrency),
	}
}
