package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotAvailable      = errors.New("session not found or not available")
	ErrPastDate          = errors.New("cannot book a session in the past")
	ErrNotCancellable    = errors.New("booking not found or cannot be cancelled")
	ErrSessionNotFound   = errors.New("session not found")
	ErrNotDeletable      = errors.New("cannot delete a booked or completed session")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrValidationFailed  = errors.New("validation failed")
)

// ValidationErrors maps a request field to every rule it broke.
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(v[field], "; "))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, ", ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrNotAvailable,
		ErrPastDate,
		ErrNotCancellable,
		ErrSessionNotFound,
		ErrNotDeletable,
		ErrValidationFailed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func transactionFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
}

// outcome is the metrics label for the result of a coordinator call.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotAvailable):
		return "not_available"
	case errors.Is(err, ErrPastDate):
		return "past_date"
	case errors.Is(err, ErrNotCancellable):
		return "not_cancellable"
	case errors.Is(err, ErrSessionNotFound):
		return "not_found"
	case errors.Is(err, ErrNotDeletable):
		return "not_deletable"
	case errors.Is(err, ErrValidationFailed):
		return "validation_failed"
	default:
		return "transaction_failed"
	}
}
