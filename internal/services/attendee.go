package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventmanager/internal/domain"
)

type attendeeService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	now              domain.Clock
	contextTimeout   time.Duration
}

// NewAttendeeService creates an AttendeeService with the given repositories.
func NewAttendeeService(
	eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	now domain.Clock,
	timeout time.Duration,
) domain.AttendeeService {
	return &attendeeService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		now:              now,
		contextTimeout:   timeout,
	}
}

// RegisterForEvent checks the cheap refusals first and then commits through the
// repository, whose insert is atomic with respect to capacity and uniqueness. The
// repository can still refuse with ErrDuplicateRegistration or ErrAlreadyFull if
// another request won the race after the checks here.
func (s *attendeeService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// A registered user hears about the duplicate even once the event is full.
	registered, err := s.registrationRepo.Exists(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("get event registration: %w", err)
	}
	if registered {
		return nil, domain.ErrDuplicateRegistration
	}
	if event.IsFullyBooked() {
		return nil, domain.ErrAlreadyFull
	}

	reg := domain.NewEventRegistration(eventID, userID, s.now())
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrDuplicateRegistration),
			errors.Is(err, domain.ErrAlreadyFull):
			return nil, err
		}
		return nil, fmt.Errorf("create event registration: %w", err)
	}
	return reg, nil
}

func (s *attendeeService) ListMyRegisteredEvents(ctx context.Context, userID string) ([]*domain.EventRegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.EventRegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// deleted after the registrations were listed
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.EventRegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}
	return result, nil
}
