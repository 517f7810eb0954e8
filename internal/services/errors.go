package services

import (
	"errors"
	"fmt"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("unauthorized access")
	ErrForbidden     = errors.New("forbidden - insufficient permissions")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")

	// Test specific errors
	ErrTestNotFound          = errors.New("test not found")
	ErrTestNotLive           = errors.New("test is not live")
	ErrTestInvalidTransition = errors.New("invalid test status transition")

	// Session specific errors
	ErrNotEnrolled = errors.New("student is not enrolled in this course")

	// Result specific errors
	ErrResultNotFound      = errors.New("no attempt found for this test")
	ErrAlreadySubmitted    = errors.New("test already submitted")
	ErrAnswerCountMismatch = errors.New("answer list does not match question count")
	ErrInvalidOptionIndex  = errors.New("selected option index out of range")
)

// ===== CUSTOM ERROR TYPES =====

// ForbiddenError carries a human-readable denial reason for the caller.
type ForbiddenError struct {
	Reason string
}

func (fe *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", fe.Reason)
}

func (fe *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

func NewForbiddenError(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrResultNotFound)
}

// IsForbidden checks if error represents a denied precondition.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrTestNotLive) ||
		errors.Is(err, ErrNotEnrolled)
}

// IsConflict checks if error represents a duplicate-attempt outcome. Conflicts
// are expected and terminal for the client, never retried as transient.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrTestInvalidTransition)
}

// IsUnauthorized checks if error represents a missing or invalid identity.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if error represents a malformed request.
func IsValidation(err error) bool {
	return errors.Is(err, ErrAnswerCountMismatch) ||
		errors.Is(err, ErrInvalidOptionIndex)
}
