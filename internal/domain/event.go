package domain

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Field bounds for events.
const (
	MaxEventNameLength        = 50
	MaxEventDescriptionLength = 200
	MaxEventVenueLength       = 100
	MinEventCapacity          = 1
	MaxEventCapacity          = 100
)

// DateLayout is the wire format of event dates.
const DateLayout = "2006-01-02"

// Clock returns the current time. Services take one so "today" can be pinned in tests.
type Clock func() time.Time

// Event represents a scheduled gathering.
// swagger:model Event
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Venue         string    `json:"venue"`
	OrganizerID   string    `json:"organizer_id"`
	Capacity      int       `json:"capacity"`
	AttendeeCount int       `json:"attendee_count"`
	// Attendees holds attendee user IDs; only populated on the detail view.
	Attendees []string  `json:"attendees,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEvent returns a new Event owned by organizerID with an empty attendee set.
// ID is set by the repository on create.
func NewEvent(input EventInput, organizerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:        input.Name,
		Description: input.Description,
		Date:        input.Date,
		Venue:       input.Venue,
		OrganizerID: organizerID,
		Capacity:    input.Capacity,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

func (e *Event) String() string {
	return e.Name
}

// IsFullyBooked reports whether the attendee count has reached capacity.
func (e *Event) IsFullyBooked() bool {
	return e.AttendeeCount >= e.Capacity
}

// IsOrganizer reports whether userID created the event.
func (e *Event) IsOrganizer(userID string) bool {
	return userID != "" && e.OrganizerID == userID
}

// EventInput holds the mutable fields of an event for create and update.
type EventInput struct {
	Name        string    `json:"name" validate:"required,max=50"`
	Description string    `json:"description" validate:"max=200"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue" validate:"required,max=100"`
	Capacity    int       `json:"capacity" validate:"min=1,max=100"`

	// RawDate keeps the submitted date text when it could not be parsed,
	// leaving Date zero.
	RawDate string `json:"-" validate:"-"`
}

// Normalize trims text fields and truncates Date to a calendar day.
func (in *EventInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Venue = strings.TrimSpace(in.Venue)
	if !in.Date.IsZero() {
		in.Date = DateOf(in.Date)
	}
}

// Validate checks field constraints and returns a *ValidationError listing
// every violation, or nil.
func (in EventInput) Validate() error {
	var problems []string
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}
	switch {
	case in.Date.IsZero() && in.RawDate != "":
		problems = append(problems, "date must be in YYYY-MM-DD format")
	case in.Date.IsZero():
		problems = append(problems, "date is required")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EarliestEventDate is the first calendar day an event may be scheduled on,
// i.e. tomorrow relative to now.
func EarliestEventDate(now time.Time) time.Time {
	return DateOf(now).AddDate(0, 0, 1)
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, error)
	Count(ctx context.Context) (int, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
	// Update overwrites the mutable fields. It returns ErrCapacityBelowAttendees
	// when the new capacity is lower than the current attendee count.
	Update(ctx context.Context, eventID string, input EventInput) (*Event, error)
	// Delete removes the event together with its attendance records.
	Delete(ctx context.Context, id string) error
}

// EventService defines event lifecycle and query operations.
type EventService interface {
	CreateEvent(ctx context.Context, input EventInput, organizerID string) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, input EventInput, callerID string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, callerID string) error
	ListUpcoming(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Event, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
