package usecase

import (
	"errors"
	"fmt"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
)

// ErrPersistence indicates an infrastructure/repository failure inside a use case
var ErrPersistence = fmt.Errorf("messaging use case persistence error")

var (
	// ErrValidation wraps missing or oversized input and domain rule violations.
	ErrValidation = errors.New("validation failed")
	// ErrAccessDenied covers both "not a participant" and "no such thread" so
	// outsiders cannot probe for thread ids.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound is only used where a record must pre-exist and the caller is
	// privileged (repair).
	ErrNotFound = errors.New("not found")
)

// Stable machine-readable error kinds.
const (
	KindValidation        = "validation_error"
	KindAccessDenied      = "access_denied"
	KindNotFound          = "not_found"
	KindDependencyFailure = "dependency_failure"
)

// KindOf classifies err. Anything unrecognised is treated as a dependency
// failure.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrAccessDenied), errors.Is(err, chat.ErrNotParticipant):
		return KindAccessDenied
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindDependencyFailure
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// domainInvalid tags a domain rule violation as a validation error while
// keeping the domain sentinel reachable through errors.Is.
func domainInvalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func persistence(err error) error {
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
