package compare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/menuscan/menuscan/internal/model"
	"github.com/menuscan/menuscan/internal/validator"
)

// Per-constraint delta statuses.
const (
	// StatusClean means neither run found violations.
	StatusClean = "CLEAN"

	// StatusFixed means the cleaning pass removed every violation.
	StatusFixed = "FIXED"

	// StatusPartial means violations decreased but some remain.
	StatusPartial = "PARTIAL"

	// StatusUnchanged means the count did not move.
	StatusUnchanged = "UNCHANGED"

	// StatusRegressed means cleaning introduced violations.
	StatusRegressed = "REGRESSED"
)

// ConstraintDelta is the before/after movement of one constraint.
type ConstraintDelta struct {
	// Name is the constraint's catalog name.
	Name string `json:"name"`

	// OriginalCount and CleanedCount are the violation counts of the
	// two runs.
	OriginalCount int `json:"original_count"`
	CleanedCount  int `json:"cleaned_count"`

	// Improvement is OriginalCount - CleanedCount; negative on
	// regressions.
	Improvement int `json:"improvement"`

	// Status classifies the movement (CLEAN, FIXED, PARTIAL,
	// UNCHANGED, REGRESSED). Derived purely from the two counts.
	Status string `json:"status"`

	// MissingFrom is set when the constraint appeared in only one run
	// ("original" or "cleaned"). Such deltas are excluded from the
	// totals; the counts of the missing side read as zero.
	MissingFrom string `json:"missing_from,omitempty"`
}

// Comparison is the full result of comparing two snapshots.
type Comparison struct {
	// OriginalDataset and CleanedDataset are the snapshot labels.
	OriginalDataset string `json:"original_dataset"`
	CleanedDataset  string `json:"cleaned_dataset"`

	// DateCompared is when the comparison ran.
	DateCompared time.Time `json:"date_compared"`

	// Deltas holds one entry per constraint, in catalog order.
	Deltas []ConstraintDelta `json:"deltas"`

	// TotalBefore and TotalAfter are the whole-run violation totals.
	TotalBefore int `json:"total_violations_before"`
	TotalAfter  int `json:"total_violations_after"`

	// ImprovementRate is 1 - after/before, zero when before is zero.
	ImprovementRate float64 `json:"improvement_rate"`

	// Original and Cleaned are the two underlying validation reports,
	// kept for detailed output and persistence.
	Original *model.ValidationReport `json:"original"`
	Cleaned  *model.ValidationReport `json:"cleaned"`
}

// Delta returns the named constraint's delta, or nil.
func (c *Comparison) Delta(name string) *ConstraintDelta {
	for i := range c.Deltas {
		if c.Deltas[i].Name == name {
			return &c.Deltas[i]
		}
	}
	return nil
}

// Comparator pairs two validator runs into a before/after comparison.
// The validator itself knows nothing about "before" and "after"; the
// pairing, the frozen outlier threshold, and the cross-snapshot
// reference diff all live here.
type Comparator struct {
	validator *validator.Validator
	logger    *slog.Logger
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithLogger sets a custom logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Comparator) {
		c.logger = logger
	}
}

// New creates a Comparator around the given validator.
func New(v *validator.Validator, opts ...Option) *Comparator {
	c := &Comparator{validator: v}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Compare validates both snapshots and derives the deltas.
//
// Both runs use baseline semantics against the original snapshot: the
// original validates against itself (no reference can break against
// itself, and the frozen threshold equals its own), the cleaned
// snapshot validates against the original. That keeps all fifteen
// constraints available on both sides, so every delta is a comparison
// of like with like.
func (c *Comparator) Compare(ctx context.Context, original, cleaned *model.Snapshot) (*Comparison, error) {
	if original == nil || cleaned == nil {
		return nil, validator.ErrNilSnapshot
	}

	c.logger.Info("validating original snapshot", "dataset", original.Label)
	before, err := c.validator.ValidateAgainstBaseline(ctx, original, original)
	if err != nil {
		return nil, fmt.Errorf("validate original snapshot: %w", err)
	}

	c.logger.Info("validating cleaned snapshot", "dataset", cleaned.Label)
	after, err := c.validator.ValidateAgainstBaseline(ctx, cleaned, original)
	if err != nil {
		return nil, fmt.Errorf("validate cleaned snapshot: %w", err)
	}

	result := &Comparison{
		OriginalDataset: original.Label,
		CleanedDataset:  cleaned.Label,
		DateCompared:    time.Now(),
		Original:        before,
		Cleaned:         after,
		TotalBefore:     before.TotalViolations,
		TotalAfter:      after.TotalViolations,
	}
	result.Deltas = buildDeltas(before, after)
	if result.TotalBefore > 0 {
		result.ImprovementRate = 1 - float64(result.TotalAfter)/float64(result.TotalBefore)
	}
	return result, nil
}

// buildDeltas pairs the two reports constraint by constraint. The two
// runs normally share the same battery, but the pairing is defensive:
// a constraint present in only one report is flagged rather than
// assumed, and asymmetric entries keep catalog order of whichever run
// has them.
func buildDeltas(before, after *model.ValidationReport) []ConstraintDelta {
	afterByName := make(map[string]*model.ConstraintResult, len(after.Constraints))
	for i := range after.Constraints {
		afterByName[after.Constraints[i].Name] = &after.Constraints[i]
	}

	deltas := make([]ConstraintDelta, 0, len(before.Constraints))
	matched := make(map[string]bool, len(before.Constraints))
	for _, b := range before.Constraints {
		d := ConstraintDelta{
			Name:          b.Name,
			OriginalCount: b.ViolationCount,
		}
		if a, ok := afterByName[b.Name]; ok {
			matched[b.Name] = true
			d.CleanedCount = a.ViolationCount
			d.Improvement = d.OriginalCount - d.CleanedCount
			d.Status = classify(d.OriginalCount, d.CleanedCount)
		} else {
			d.MissingFrom = "cleaned"
			d.Improvement = d.OriginalCount
		}
		deltas = append(deltas, d)
	}

	for _, a := range after.Constraints {
		if matched[a.Name] {
			continue
		}
		deltas = append(deltas, ConstraintDelta{
			Name:         a.Name,
			CleanedCount: a.ViolationCount,
			Improvement:  -a.ViolationCount,
			MissingFrom:  "original",
		})
	}
	return deltas
}

// classify maps a pair of counts onto a delta status.
func classify(before, after int) string {
	switch {
	case before == 0 && after == 0:
		return StatusClean
	case after > before:
		return StatusRegressed
	case after == before:
		return StatusUnchanged
	case after == 0:
		return StatusFixed
	default:
		return StatusPartial
	}
}
