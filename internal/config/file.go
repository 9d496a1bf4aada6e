package config

// ValidationConfig holds validation tuning options read from the
// configuration file. Zero values mean "not set" and are ignored when
// merging into a Config, so the file only overrides what it names.
type ValidationConfig struct {
	// SigmaMultiplier overrides the standard deviation multiplier used
	// for price outlier detection.
	SigmaMultiplier float64 `yaml:"sigmaMultiplier,omitempty"`

	// SampleSize overrides how many example rows are kept per
	// constraint. Use -1 in the file to request zero samples.
	SampleSize int `yaml:"sampleSize,omitempty"`

	// MinYear overrides the lower bound for plausible menu dates.
	MinYear int `yaml:"minYear,omitempty"`

	// MaxYear overrides the upper bound for plausible menu dates.
	MaxYear int `yaml:"maxYear,omitempty"`

	// Concurrency overrides how many constraints run in parallel.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// File represents the structure of the .menuscan configuration file.
type File struct {
	// Original is the default path to the original dataset, used when
	// the command line does not name one.
	Original string `yaml:"original,omitempty"`

	// Cleaned is the default path to the cleaned dataset.
	Cleaned string `yaml:"cleaned,omitempty"`

	// Validation contains validation tuning options.
	Validation ValidationConfig `yaml:"validation,omitempty"`
}

// ApplyTo merges the file configuration into cfg. Command line flags
// win: a value is only copied when the corresponding cfg field still
// holds its default. Paths are only copied when cfg has none.
func (cf *File) ApplyTo(cfg *Config) {
	if cfg.OriginalPath == "" {
		cfg.OriginalPath = cf.Original
	}
	if cfg.CleanedPath == "" {
		cfg.CleanedPath = cf.Cleaned
	}

	defaults := NewConfig()
	v := cf.Validation
	if v.SigmaMultiplier != 0 && cfg.SigmaMultiplier == defaults.SigmaMultiplier {
		cfg.SigmaMultiplier = v.SigmaMultiplier
	}
	if v.SampleSize != 0 && cfg.SampleSize == defaults.SampleSize {
		if v.SampleSize < 0 {
			cfg.SampleSize = 0
		} else {
			cfg.SampleSize = v.SampleSize
		}
	}
	if v.MinYear != 0 && cfg.MinYear == defaults.MinYear {
		cfg.MinYear = v.MinYear
	}
	if v.MaxYear != 0 && cfg.MaxYear == defaults.MaxYear {
		cfg.MaxYear = v.MaxYear
	}
	if v.Concurrency != 0 && cfg.Concurrency == defaults.Concurrency {
		cfg.Concurrency = v.Concurrency
	}
}
