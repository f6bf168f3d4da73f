package domain

import (
	"context"
	"time"
)

// EventRegistration is one attendance record: a user registered for an event.
// swagger:model EventRegistration
type EventRegistration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEventRegistration creates a new EventRegistration. ID is set by the repository on create.
func NewEventRegistration(eventID, userID string, createdAt time.Time) *EventRegistration {
	return &EventRegistration{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

// EventRegistrationRepository defines storage operations for attendance records.
type EventRegistrationRepository interface {
	// Create inserts the record atomically with respect to the event's capacity
	// and the (event_id, user_id) uniqueness constraint. It returns ErrNotFound,
	// ErrDuplicateRegistration or ErrAlreadyFull when the insert is refused.
	Create(ctx context.Context, reg *EventRegistration) error
	Exists(ctx context.Context, eventID, userID string) (bool, error)
	ListUserIDsByEventID(ctx context.Context, eventID string) ([]string, error)
	ListByUserID(ctx context.Context, userID string) ([]*EventRegistration, error)
}

// EventRegistrationWithEvent bundles a registration with its related event.
type EventRegistrationWithEvent struct {
	Registration *EventRegistration `json:"registration"`
	Event        *Event             `json:"event"`
}

// AttendeeService defines attendee-facing operations such as event registration.
type AttendeeService interface {
	// RegisterForEvent adds userID to the event's attendees. Besides infrastructure
	// failures it returns ErrNotFound, ErrDuplicateRegistration or ErrAlreadyFull.
	RegisterForEvent(ctx context.Context, eventID, userID string) (*EventRegistration, error)
	ListMyRegisteredEvents(ctx context.Context, userID string) ([]*EventRegistrationWithEvent, error)
}
