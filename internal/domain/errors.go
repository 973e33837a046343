package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks input that failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateTier is returned when a sub-category already has a question at the tier.
	ErrDuplicateTier = errors.New("duplicate point tier")
	// ErrUnknownImportKind is returned for an import/export kind that is not supported.
	ErrUnknownImportKind = errors.New("unknown import kind")
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DuplicateTierError is returned by question writes that would break the one-question-per-tier rule.
type DuplicateTierError struct {
	SubCategoryID string
	Points        PointTier
}

func (e *DuplicateTierError) Error() string {
	return fmt.Sprintf("A question with %d points already exists for this sub-category", e.Points)
}

func (e *DuplicateTierError) Is(target error) bool {
	return target == ErrDuplicateTier
}
