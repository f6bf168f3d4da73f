package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by services and repositories.
var (
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidInput           = errors.New("invalid input")
	ErrPastDate               = errors.New("event date must be after today")
	ErrAlreadyFull            = errors.New("this event is fully booked")
	ErrDuplicateRegistration  = errors.New("you are already registered")
	ErrCapacityBelowAttendees = errors.New("capacity is lower than the number of registered attendees")
)

// ValidationError lists every field constraint a request violated.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// PastDateError is returned when an event would be scheduled today or earlier.
// Action is "create" or "schedule" and only affects the message.
type PastDateError struct {
	Action string
}

func (e *PastDateError) Error() string {
	action := e.Action
	if action == "" {
		action = "schedule"
	}
	return "cannot " + action + " events in the past or today"
}

func (e *PastDateError) Is(target error) bool {
	return target == ErrPastDate
}
