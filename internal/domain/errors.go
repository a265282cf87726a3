package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared across services. Services return these directly;
// anything else coming out of a repository is a server fault and is wrapped.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrPastMeetup is returned when an owner tries to edit or remove a
	// meetup whose date has already elapsed.
	ErrPastMeetup = errors.New("you can only change future meetups")

	// ErrIneligibleMeetup covers missing meetup, own meetup, and past meetup
	// on subscribe. Callers must not distinguish the three causes.
	ErrIneligibleMeetup = errors.New("you can't subscribe to this meetup")

	ErrAlreadySubscribed    = errors.New("you're already subscribed")
	ErrScheduleConflict     = errors.New("you're already subscribed to another meetup at this time")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// ValidationError reports every violated input field, not just the first.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewValidationError returns a ValidationError with the given messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
