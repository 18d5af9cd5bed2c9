package service

import (
	"errors"
	"fmt"

	"trahy/booking-service/internal/app/booking/repository"
)

// Failure taxonomy shared by every component. Handlers match these with
// errors.Is and map them to HTTP statuses.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrMissingInput      = errors.New("missing input")
	ErrForbidden         = errors.New("forbidden")
	ErrPersistence       = errors.New("persistence error")

	ErrAlreadyCancelled = fmt.Errorf("%w: already cancelled", ErrInvalidTransition)
)

// translate converts a repository error into the service taxonomy. Errors that
// already belong to it pass through unchanged.
func translate(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrMissingInput),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrPersistence):
		return err
	case errors.Is(err, repository.ErrBookingAlreadyCancelled):
		return ErrAlreadyCancelled
	case errors.Is(err, repository.ErrBookingNotPending):
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	case errors.Is(err, repository.ErrPropertyNotFound),
		errors.Is(err, repository.ErrReviewNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: failed to %s: %w", ErrPersistence, action, err)
	}
}

func missing(what string) error {
	return fmt.Errorf("%w: %s", ErrMissingInput, what)
}
