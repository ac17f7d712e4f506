package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrState           = errors.New("illegal state transition")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
	ErrExternalService = errors.New("external service error")

	// ErrInvalidInput is a ValidationError raised for malformed call arguments
	// rather than malformed user payloads.
	ErrInvalidInput = fmt.Errorf("%w: invalid input", ErrValidation)
)

// ExternalError wraps a collaborator failure so it matches ErrExternalService
// while keeping the original cause reachable through errors.Is/As.
func ExternalError(service string, cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrExternalService) {
		return cause
	}
	return fmt.Errorf("%w: %s: %w", ErrExternalService, service, cause)
}
