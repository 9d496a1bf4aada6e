package validator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/menuscan/menuscan/internal/model"
)

// Default engine settings.
const (
	// DefaultSigmaMultiplier is the k of the mean + k*stddev outlier
	// rule. Three standard deviations is the classic cut-off and what
	// the cleaning stage caps against.
	DefaultSigmaMultiplier = 3.0

	// DefaultSampleSize is how many example violations each constraint
	// result carries. The full count is always reported; samples only
	// keep report output bounded.
	DefaultSampleSize = 5

	// DefaultMinYear is the lower bound for plausible menu dates. The
	// collection starts in the 1850s; anything earlier is a
	// transcription error.
	DefaultMinYear = 1850

	// DefaultConcurrency is the number of constraints evaluated in
	// parallel. The battery is embarrassingly parallel; four keeps the
	// overhead negligible for a fifteen-rule battery.
	DefaultConcurrency = 4
)

// Validator evaluates the fixed constraint battery against a snapshot.
// It never mutates the snapshot, and running it twice on the same
// snapshot yields identical results.
type Validator struct {
	sigma       float64
	sampleSize  int
	minYear     int
	maxYear     int
	concurrency int
	logger      *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithSigmaMultiplier sets the outlier rule's k. Values <= 0 keep the
// default.
func WithSigmaMultiplier(sigma float64) Option {
	return func(v *Validator) {
		if sigma > 0 {
			v.sigma = sigma
		}
	}
}

// WithSampleSize sets how many example violations each result carries.
// Zero is valid and means counts only, no samples.
func WithSampleSize(n int) Option {
	return func(v *Validator) {
		if n >= 0 {
			v.sampleSize = n
		}
	}
}

// WithDateBounds sets the valid historical year range for menu dates.
// maxYear of zero means the current year.
func WithDateBounds(minYear, maxYear int) Option {
	return func(v *Validator) {
		if minYear > 0 {
			v.minYear = minYear
		}
		if maxYear > 0 {
			v.maxYear = maxYear
		}
	}
}

// WithConcurrency sets how many constraints evaluate in parallel.
// One disables concurrency entirely.
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// WithLogger sets a custom logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New creates a Validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{
		sigma:       DefaultSigmaMultiplier,
		sampleSize:  DefaultSampleSize,
		minYear:     DefaultMinYear,
		maxYear:     time.Now().Year(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	return v
}

// battery builds the full constraint list in catalog order. The two
// cross-snapshot rules take the baseline snapshot and the frozen
// threshold; with nil arguments they report UNAVAILABLE, so the battery
// keeps the same shape in every run.
func (v *Validator) battery(baseline *model.Snapshot, frozenThreshold *float64) []Constraint {
	return []Constraint{
		missingDishRefs{},
		missingMenuRefs{},
		missingPageRefs{},
		negativePrices{},
		inconsistentRanges{},
		extremeOutliers{sigma: v.sigma},
		emptyDishNames{},
		duplicateDishNames{},
		emptyMenuPages{},
		inconsistentPages{},
		inconsistentDishes{},
		anachronisticDates{minYear: v.minYear, maxYear: v.maxYear},
		cleaningBrokeRefs{baseline: baseline},
		uncappedOutliers{threshold: frozenThreshold},
		uncleanedDishNames{},
	}
}

// ConstraintNames returns the catalog names in battery order.
func (v *Validator) ConstraintNames() []string {
	constraints := v.battery(nil, nil)
	names := make([]string, len(constraints))
	for i, c := range constraints {
		names[i] = c.Name()
	}
	return names
}

// Validate runs the battery against one snapshot. The two
// cross-snapshot constraints report UNAVAILABLE in this mode; use
// ValidateAgainstBaseline when an original snapshot is at hand.
func (v *Validator) Validate(ctx context.Context, snap *model.Snapshot) (*model.ValidationReport, error) {
	return v.ValidateAgainstBaseline(ctx, snap, nil)
}

// ValidateAgainstBaseline runs the battery with cross-snapshot context:
// the broken-reference check diffs snap against baseline, and the
// uncapped-outlier check uses the threshold computed from the
// baseline's price distribution. Validating a snapshot against itself
// is well-defined (no reference can break against itself, and the
// frozen threshold equals the snapshot's own).
func (v *Validator) ValidateAgainstBaseline(ctx context.Context, snap, baseline *model.Snapshot) (*model.ValidationReport, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	var frozen *float64
	if baseline != nil {
		if stats, ok := SnapshotPriceStats(baseline); ok {
			t := stats.Threshold(v.sigma)
			frozen = &t
		}
	}

	constraints := v.battery(baseline, frozen)
	results := make([]model.ConstraintResult, len(constraints))

	// Constraints are independent and read-only over an immutable
	// snapshot, so they may evaluate concurrently. The indexed results
	// slice keeps aggregation in catalog order regardless of which
	// goroutine finishes first.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for i, c := range constraints {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			v.logger.Debug("evaluating constraint", "constraint", c.Name(), "dataset", snap.Label)
			results[i] = v.evaluate(ctx, c, snap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &model.ValidationReport{
		Dataset:       snap.Label,
		DateValidated: time.Now(),
		TableCounts:   tableCounts(snap),
		Constraints:   results,
	}
	for _, r := range results {
		report.TotalViolations += r.ViolationCount
	}
	return report, nil
}

// evaluate runs one constraint and converts its outcome into a result.
// Constraint errors are always local: any error becomes UNAVAILABLE and
// the battery continues.
func (v *Validator) evaluate(ctx context.Context, c Constraint, snap *model.Snapshot) model.ConstraintResult {
	violations, err := c.Check(ctx, snap)
	if err != nil {
		v.logger.Warn("constraint unavailable",
			"constraint", c.Name(),
			"dataset", snap.Label,
			"reason", err,
		)
		return model.ConstraintResult{
			Name:   c.Name(),
			Status: model.StatusUnavailable,
			Reason: err.Error(),
		}
	}

	result := model.ConstraintResult{
		Name:           c.Name(),
		Status:         model.StatusPass,
		ViolationCount: len(violations),
	}
	if len(violations) > 0 {
		result.Status = model.StatusFail
		sample := violations
		if len(sample) > v.sampleSize {
			sample = sample[:v.sampleSize]
		}
		result.SampleViolations = sample
	}
	return result
}

// tableCounts records loaded row counts per table for the report's
// prerequisite section.
func tableCounts(snap *model.Snapshot) map[string]int {
	counts := make(map[string]int)
	for _, t := range model.Tables {
		if snap.Has(t) {
			counts[string(t)] = snap.RowCount(t)
		}
	}
	return counts
}
