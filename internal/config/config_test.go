package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/menuscan/menuscan/internal/validator"
)

// TestNewConfigDefaults tests that defaults mirror the engine constants.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.SigmaMultiplier != validator.DefaultSigmaMultiplier {
		t.Errorf("SigmaMultiplier = %v, want %v", cfg.SigmaMultiplier, validator.DefaultSigmaMultiplier)
	}
	if cfg.SampleSize != validator.DefaultSampleSize {
		t.Errorf("SampleSize = %d, want %d", cfg.SampleSize, validator.DefaultSampleSize)
	}
	if cfg.MinYear != validator.DefaultMinYear {
		t.Errorf("MinYear = %d, want %d", cfg.MinYear, validator.DefaultMinYear)
	}
	if cfg.Concurrency != validator.DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", cfg.Concurrency, validator.DefaultConcurrency)
	}
	if cfg.MaxYear != 0 {
		t.Errorf("MaxYear = %d, want 0 (current year)", cfg.MaxYear)
	}
	if cfg.DBDir == "" {
		t.Error("expected a default database directory")
	}
}

// TestConfigValidate tests each validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.OriginalPath = "/data/menus"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "missing dataset",
			mutate:  func(c *Config) { c.OriginalPath = "" },
			wantErr: ErrNoDataset,
		},
		{
			name:    "zero sigma",
			mutate:  func(c *Config) { c.SigmaMultiplier = 0 },
			wantErr: ErrInvalidSigma,
		},
		{
			name:    "negative sigma",
			mutate:  func(c *Config) { c.SigmaMultiplier = -1 },
			wantErr: ErrInvalidSigma,
		},
		{
			name:    "negative sample size",
			mutate:  func(c *Config) { c.SampleSize = -1 },
			wantErr: ErrInvalidSampleSize,
		},
		{
			name:    "zero sample size is valid",
			mutate:  func(c *Config) { c.SampleSize = 0 },
			wantErr: nil,
		},
		{
			name:    "non-positive min year",
			mutate:  func(c *Config) { c.MinYear = 0 },
			wantErr: ErrInvalidYearBounds,
		},
		{
			name:    "max year below min year",
			mutate:  func(c *Config) { c.MaxYear = c.MinYear - 1 },
			wantErr: ErrInvalidYearBounds,
		},
		{
			name:    "zero max year means current year",
			mutate:  func(c *Config) { c.MaxYear = 0 },
			wantErr: nil,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "conflicting report formats",
			mutate:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidatorOptions tests that the configuration converts into the
// full set of engine options.
func TestValidatorOptions(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.SigmaMultiplier = 2.5
	cfg.SampleSize = 10

	opts := cfg.ValidatorOptions()
	if len(opts) != 4 {
		t.Errorf("expected 4 options, got %d", len(opts))
	}
}

// TestFileApplyTo tests merge semantics between file and flags.
func TestFileApplyTo(t *testing.T) {
	t.Parallel()

	t.Run("file fills unset fields", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Original: "/data/original",
			Cleaned:  "/data/cleaned",
			Validation: ValidationConfig{
				SigmaMultiplier: 2.0,
				SampleSize:      10,
				MinYear:         1800,
				MaxYear:         1990,
				Concurrency:     8,
			},
		}

		cfg := NewConfig()
		cf.ApplyTo(cfg)

		if cfg.OriginalPath != "/data/original" || cfg.CleanedPath != "/data/cleaned" {
			t.Errorf("paths not applied: %q, %q", cfg.OriginalPath, cfg.CleanedPath)
		}
		if cfg.SigmaMultiplier != 2.0 || cfg.SampleSize != 10 {
			t.Errorf("tuning not applied: sigma %v, samples %d", cfg.SigmaMultiplier, cfg.SampleSize)
		}
		if cfg.MinYear != 1800 || cfg.MaxYear != 1990 || cfg.Concurrency != 8 {
			t.Errorf("tuning not applied: %d-%d, concurrency %d", cfg.MinYear, cfg.MaxYear, cfg.Concurrency)
		}
	})

	t.Run("explicit flags win over the file", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Original:   "/data/original",
			Validation: ValidationConfig{SigmaMultiplier: 2.0, MinYear: 1800},
		}

		cfg := NewConfig()
		cfg.OriginalPath = "/flag/original"
		cfg.SigmaMultiplier = 4.0

		cf.ApplyTo(cfg)

		if cfg.OriginalPath != "/flag/original" {
			t.Errorf("expected flag path to win, got %q", cfg.OriginalPath)
		}
		if cfg.SigmaMultiplier != 4.0 {
			t.Errorf("expected flag sigma to win, got %v", cfg.SigmaMultiplier)
		}
		if cfg.MinYear != 1800 {
			t.Errorf("expected unset min year to take the file value, got %d", cfg.MinYear)
		}
	})

	t.Run("negative sample size means counts only", func(t *testing.T) {
		t.Parallel()

		cf := &File{Validation: ValidationConfig{SampleSize: -1}}
		cfg := NewConfig()
		cf.ApplyTo(cfg)

		if cfg.SampleSize != 0 {
			t.Errorf("expected sample size 0, got %d", cfg.SampleSize)
		}
	})
}

// TestLoadConfigFile tests YAML parsing and the not-found sentinel.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a valid file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `original: /data/original
cleaned: /data/cleaned
validation:
  sigmaMultiplier: 2.5
  sampleSize: 3
  minYear: 1800
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Original != "/data/original" || cf.Cleaned != "/data/cleaned" {
			t.Errorf("paths not loaded: %+v", cf)
		}
		if cf.Validation.SigmaMultiplier != 2.5 || cf.Validation.SampleSize != 3 || cf.Validation.MinYear != 1800 {
			t.Errorf("validation options not loaded: %+v", cf.Validation)
		}
	})

	t.Run("returns ErrConfigNotFound for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("original: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected an error for malformed YAML")
		}
	})
}

// TestFindConfigFile tests the explicit-path branch of the search.
// The fallback search walks the current and home directories, which
// are not safe to manipulate in parallel tests.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("original: /data\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile(%q) = %q, want the same path", path, got)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing")
		if got := FindConfigFile(missing); got != "" {
			t.Errorf("FindConfigFile(%q) = %q, want empty", missing, got)
		}
	})
}
