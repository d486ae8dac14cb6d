package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrChallengeNotFound is returned when an id matches neither collection.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrNoCorrectAnswer marks an authored question with no answer flagged correct.
	ErrNoCorrectAnswer = errors.New("question has no correct answer")
	// ErrReservedID is returned when a fixed challenge uses the authored id prefix.
	ErrReservedID = errors.New("challenge id uses reserved prefix")
	// ErrUnauthenticated means the bearer credential is missing or malformed.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the bearer credential failed verification.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
