package model

import "time"

// Violation is one violating row or row-group, as a mapping of column
// name to value. encoding/json writes map keys in sorted order, so the
// serialized form is deterministic without extra bookkeeping.
type Violation map[string]any

// ConstraintResult is the outcome of one constraint over one snapshot.
type ConstraintResult struct {
	// Name is the constraint's catalog name.
	Name string `json:"name"`

	// Status is PASS, FAIL, or UNAVAILABLE.
	Status Status `json:"status"`

	// ViolationCount is the total number of violations found, which may
	// exceed len(SampleViolations) when sampling truncated the list.
	ViolationCount int `json:"violation_count"`

	// SampleViolations holds up to the configured sample size of
	// example violations, in deterministic (id-sorted) order.
	SampleViolations []Violation `json:"sample_violations,omitempty"`

	// Reason explains an UNAVAILABLE status. Empty otherwise.
	Reason string `json:"reason,omitempty"`
}

// ValidationReport is the structured result of running the full
// constraint battery over one snapshot. It is what the report writers
// consume and what the run-history database stores.
type ValidationReport struct {
	// Dataset is the label of the validated snapshot.
	Dataset string `json:"dataset"`

	// DateValidated is when the battery ran.
	DateValidated time.Time `json:"date_validated"`

	// TableCounts records rows loaded per table, in table order. Absent
	// tables are omitted. This mirrors the prerequisite check the
	// validate command prints before running the battery.
	TableCounts map[string]int `json:"table_counts,omitempty"`

	// Constraints holds one result per catalog entry, in catalog order.
	Constraints []ConstraintResult `json:"constraints"`

	// TotalViolations is the sum of ViolationCount over all constraints.
	TotalViolations int `json:"total_violations"`
}

// Result returns the named constraint's result, or nil if the report
// does not contain it.
func (r *ValidationReport) Result(name string) *ConstraintResult {
	for i := range r.Constraints {
		if r.Constraints[i].Name == name {
			return &r.Constraints[i]
		}
	}
	return nil
}

// FailedCount returns the number of constraints with status FAIL.
func (r *ValidationReport) FailedCount() int {
	n := 0
	for _, c := range r.Constraints {
		if c.Status == StatusFail {
			n++
		}
	}
	return n
}

// UnavailableCount returns the number of constraints that could not run.
func (r *ValidationReport) UnavailableCount() int {
	n := 0
	for _, c := range r.Constraints {
		if c.Status == StatusUnavailable {
			n++
		}
	}
	return n
}

// PassedCount returns the number of constraints with status PASS.
func (r *ValidationReport) PassedCount() int {
	return len(r.Constraints) - r.FailedCount() - r.UnavailableCount()
}

// HasViolations reports whether any constraint found violations.
func (r *ValidationReport) HasViolations() bool {
	return r.TotalViolations > 0
}
