package types

import (
	"errors"
	"fmt"
)

// Board lifecycle errors.
var (
	ErrBoardDetached   = errors.New("board is detached")
	ErrAlreadyAttached = errors.New("board is already attached")
)

// Element errors.
var (
	ErrNotFound      = errors.New("element not found")
	ErrInvalidID     = errors.New("invalid element ID")
	ErrInvalidData   = errors.New("invalid element data")
	ErrInvalidType   = errors.New("invalid element type")
	ErrDuplicateID   = errors.New("duplicate element ID")
	ErrUnknownField  = errors.New("unknown element field")
	ErrReadOnlyField = errors.New("field is managed by the mutation engine")
	ErrTypeMismatch  = errors.New("type mismatch")
)

// Operation errors.
var (
	// ErrInvariant marks a contract violation between an operation and its
	// inputs. The operation is aborted and produces no result.
	ErrInvariant = errors.New("invariant violated")

	// ErrSceneBounds is returned when a drag duplication meets coordinates or
	// sizes beyond MaxSceneMagnitude.
	ErrSceneBounds = errors.New("element exceeds scene bounds")

	// ErrEmptySelection is returned when an operation needs a selection and
	// none of the requested elements exist.
	ErrEmptySelection = errors.New("selection is empty")
)

// MaxSceneMagnitude is the largest absolute coordinate or size accepted
// during drag duplication.
const MaxSceneMagnitude = 1e7

// InvariantError describes a fatal invariant violation detected inside an
// operation. It unwraps to ErrInvariant.
type InvariantError struct {
	// Op names the operation that detected the violation.
	Op string

	// Message is a human-readable description.
	Message string

	// ElementID identifies the element being processed, when known.
	ElementID string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.ElementID != "" {
		return fmt.Sprintf("%s: %s (element=%s)", e.Op, e.Message, e.ElementID)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns ErrInvariant so callers can match with errors.Is.
func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// IsInvariantError returns true if err is or wraps an InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
