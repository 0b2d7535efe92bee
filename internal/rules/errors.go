package rules

import (
	"errors"
	"fmt"
)

var (
	ErrGameClosed    = errors.New("game closed")
	ErrInvalidEvent  = errors.New("invalid event")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrOutOfOrder    = errors.New("event out of order")
)

// invalidEvent wraps ErrInvalidEvent with the offending event type and field
// so a caller can construct a corrected resubmission.
func invalidEvent(eventType EventType, field string, reason string) error {
	return fmt.Errorf("%w: %s event, field %q: %s", ErrInvalidEvent, eventType, field, reason)
}
