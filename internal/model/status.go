package model

import "fmt"

// Status is the outcome of evaluating one constraint against a snapshot.
//
// Design decision: iota constants with a String method, serialized as
// strings in JSON. The structured output contract names the statuses
// as "PASS", "FAIL", and "UNAVAILABLE", so the wire form is the string
// rather than the numeric value.
type Status int

const (
	// StatusPass means the constraint found no violating rows.
	StatusPass Status = iota

	// StatusFail means the constraint found one or more violating rows.
	StatusFail

	// StatusUnavailable means the constraint could not be evaluated,
	// for example because a required table or column was not loaded or
	// an aggregate had no input rows. Unavailability is local to the
	// constraint; the rest of the battery still runs.
	StatusUnavailable
)

// String returns the wire representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON serializes the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the string form back into a Status.
func (s *Status) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"PASS"`:
		*s = StatusPass
	case `"FAIL"`:
		*s = StatusFail
	case `"UNAVAILABLE"`:
		*s = StatusUnavailable
	default:
		return fmt.Errorf("unknown constraint status %s", string(data))
	}
	return nil
}
