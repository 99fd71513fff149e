package common

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the core. Every error returned from a core operation
// matches exactly one of the first four with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrExternalService = errors.New("external service error")
	ErrValidation      = errors.New("validation error")

	ErrSeriesNotFound = fmt.Errorf("telemetry series %w", ErrNotFound)
	ErrSeriesExists   = fmt.Errorf("telemetry series exists: %w", ErrConflict)
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ExternalError wraps err as an external service failure, keeping the cause in the chain.
func ExternalError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrExternalService) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrExternalService, op, err)
}

// ErrorKind names the taxonomy kind of err, or "internal" when it matches none.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrExternalService):
		return "external"
	default:
		return "internal"
	}
}
