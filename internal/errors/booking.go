package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch means an utterance did not fit the slot being asked for.
	ErrNoMatch = errors.New("utterance did not match")
	// ErrNoInput means the turn carried neither speech nor digits.
	ErrNoInput = errors.New("no input received")
	// ErrMalformedState means the pending step disagrees with the session draft.
	ErrMalformedState = errors.New("malformed dialogue state")
	// ErrCapacityExceeded is returned when a slot cannot hold the party.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrBackendUnavailable wraps persistence and remote lookup failures.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrReservationNotFound is returned when no reservation has the given code.
	ErrReservationNotFound = errors.New("reservation not found")
)

// CapacityError reports how many seats were left when a booking was refused.
type CapacityError struct {
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %d seats remaining", e.Remaining)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// Unavailable wraps err so that errors.Is(err, ErrBackendUnavailable) holds.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, err)
}
