package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: package-level sentinel errors rather than error
// values created inline, so callers can use errors.Is while still
// getting a readable message.
var (
	// ErrNoDataset is returned when no dataset path was provided.
	ErrNoDataset = errors.New("no dataset specified: provide a CSV directory or SQLite database path")

	// ErrInvalidSigma is returned when the sigma multiplier is not
	// positive. A non-positive multiplier would flag every price as an
	// outlier.
	ErrInvalidSigma = errors.New("invalid sigma multiplier: must be positive")

	// ErrInvalidSampleSize is returned when the sample size is
	// negative. Zero is valid and means counts without examples.
	ErrInvalidSampleSize = errors.New("invalid sample size: must be non-negative")

	// ErrInvalidYearBounds is returned when the date bounds are
	// unusable: a non-positive minimum year, or a maximum below the
	// minimum.
	ErrInvalidYearBounds = errors.New("invalid date bounds: min year must be positive and not exceed max year")

	// ErrInvalidConcurrency is returned when the concurrency is not
	// positive. Use 1 to disable parallel evaluation.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested. Only one format can be produced.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
