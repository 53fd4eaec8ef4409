package alignment

import "fmt"

// AlignmentError is the base error type for scoring and alignment operations.
type AlignmentError interface {
	error
	IsAlignmentError()
}

// UnsetParameterError is returned when a matrix parameter is read before
// being supplied.
type UnsetParameterError struct {
	Name string
}

func (e *UnsetParameterError) Error() string {
	return fmt.Sprintf("substitution matrix parameter %q was never set", e.Name)
}

func (e *UnsetParameterError) IsAlignmentError() {}

// MissingScoreError is returned by a strict matrix for an unknown pair.
type MissingScoreError struct {
	A, B byte
}

func (e *MissingScoreError) Error() string {
	return fmt.Sprintf("no score for pair (%q, %q)", e.A, e.B)
}

func (e *MissingScoreError) IsAlignmentError() {}

// InvalidSequenceError is returned when an aligner is given an unusable input.
type InvalidSequenceError struct {
	Which  string
	Reason string
}

func (e *InvalidSequenceError) Error() string {
	return fmt.Sprintf("invalid %s sequence: %s", e.Which, e.Reason)
}

func (e *InvalidSequenceError) IsAlignmentError() {}

// BuilderLengthMismatchError is returned when the letters queued on one side of
// a Builder do not pair up.
type BuilderLengthMismatchError struct {
	Side     string
	Database int
	Query    int
}

func (e *BuilderLengthMismatchError) Error() string {
	return fmt.Sprintf("%s buffer holds %d database and %d query letters", e.Side, e.Database, e.Query)
}

func (e *BuilderLengthMismatchError) IsAlignmentError() {}

// AlignmentLengthError is returned when the two rows of an alignment differ in length.
type AlignmentLengthError struct {
	Database int
	Query    int
}

func (e *AlignmentLengthError) Error() string {
	return fmt.Sprintf("aligned sequences must have equal length (database %d, query %d)", e.Database, e.Query)
}

func (e *AlignmentLengthError) IsAlignmentError() {}

// InvariantViolation signals an aligner bug. It is raised with panic and
// never returned to callers.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "alignment invariant violated: " + e.Msg
}

func (e *InvariantViolation) IsAlignmentError() {}
