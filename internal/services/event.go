package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventmanager/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	now              domain.Clock
	contextTimeout   time.Duration
}

// NewEventService returns the event lifecycle and query service.
// now supplies "today" for the date rule; pass time.Now outside tests.
func NewEventService(
	eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	now domain.Clock,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		now:              now,
		contextTimeout:   timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, input domain.EventInput, organizerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if organizerID == "" {
		return nil, fmt.Errorf("event organizer is required")
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	if err := checkEventDate(input.Date, now, "create"); err != nil {
		return nil, err
	}

	event := domain.NewEvent(input, organizerID, now, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.registrationRepo.ListUserIDsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	event.Attendees = attendees
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, input domain.EventInput, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrganizer(event, callerID); err != nil {
		return nil, err
	}

	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := checkEventDate(input.Date, s.now(), "schedule"); err != nil {
		return nil, err
	}
	if input.Capacity < event.AttendeeCount {
		return nil, capacityBelowAttendees(event.AttendeeCount)
	}

	updated, err := s.eventRepo.Update(ctx, eventID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, domain.ErrCapacityBelowAttendees):
			// attendees registered between the read above and the update
			return nil, capacityBelowAttendees(-1)
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := authorizeOrganizer(event, callerID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ListUpcoming(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	total, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	events, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events by organizer: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// authorizeOrganizer guards every mutating lifecycle operation.
func authorizeOrganizer(event *domain.Event, callerID string) error {
	if !event.IsOrganizer(callerID) {
		return domain.ErrForbidden
	}
	return nil
}

// checkEventDate enforces that events happen tomorrow or later.
func checkEventDate(date, now time.Time, action string) error {
	if date.Before(domain.EarliestEventDate(now)) {
		return &domain.PastDateError{Action: action}
	}
	return nil
}

func capacityBelowAttendees(attendees int) error {
	msg := "capacity cannot be lower than the number of registered attendees"
	if attendees >= 0 {
		msg = fmt.Sprintf("%s (%d)", msg, attendees)
	}
	return &domain.ValidationError{Problems: []string{msg}}
}
