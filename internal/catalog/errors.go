package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLimit is returned when the result limit is neither -1 nor positive.
	ErrInvalidLimit = errors.New("invalid limit: must be -1 or a positive integer")

	// ErrMissingField is returned when a required field is absent from the catalog.
	ErrMissingField = errors.New("missing field")

	// ErrIncomparable is returned when sort key values cannot be ordered.
	ErrIncomparable = errors.New("incomparable sort values")

	// ErrNoEntriesKept is returned when filtering removes every entry.
	ErrNoEntriesKept = errors.New("no openrouter models were kept after regex filtering")
)

// FieldError reports a field lookup failure on a single catalog entry
type FieldError struct {
	Index int    // position of the entry in the fetched sequence
	Field string // name of the missing or malformed field
	Cause string // optional detail, e.g. "not a string"
}

func (e *FieldError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("entry %d: field %q %s", e.Index, e.Field, e.Cause)
	}
	return fmt.Sprintf("entry %d: missing field %q", e.Index, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrMissingField
}

// CompareError reports two sort key values that have no common ordering
type CompareError struct {
	Field string
	Left  string
	Right string
}

func (e *CompareError) Error() string {
	return fmt.Sprintf("cannot compare %q values %s and %s", e.Field, e.Left, e.Right)
}

func (e *CompareError) Unwrap() error {
	return ErrIncomparable
}

// ValidateLimit checks that n is -1 (unbounded) or strictly positive
func ValidateLimit(n int) error {
	if n == -1 || n > 0 {
		return nil
	}
	return fmt.Errorf("%w (got %d)", ErrInvalidLimit, n)
}
