package validator

import "errors"

// Sentinel errors for constraint evaluation.
//
// Design decision: package-level sentinel errors checked with errors.Is
// rather than ad-hoc error values, so the engine can distinguish "this
// constraint cannot run here" (local, non-fatal, reported as
// UNAVAILABLE) from genuine failures without string matching.
var (
	// ErrConstraintUnavailable marks a constraint that cannot be
	// evaluated on the given snapshot. Constraints wrap it with the
	// specific reason (missing table, missing column, empty aggregate
	// input). The engine converts it into an UNAVAILABLE result and
	// keeps running the rest of the battery.
	ErrConstraintUnavailable = errors.New("constraint unavailable")

	// ErrNilSnapshot is returned when Validate is called without a
	// snapshot. Unlike per-constraint unavailability this is a caller
	// bug and fails the whole run.
	ErrNilSnapshot = errors.New("snapshot is nil")
)
