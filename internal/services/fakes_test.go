package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"eventmanager/internal/domain"
)

// today is the pinned "now" for service tests.
var today = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

func daysFromToday(n int) time.Time {
	return domain.DateOf(today).AddDate(0, 0, n)
}

// memStore backs both in-memory repositories so registrations see the same
// events the event repository serves.
type memStore struct {
	mu      sync.Mutex
	seq     int
	events  map[string]*domain.Event
	regs    []*domain.EventRegistration
	failErr error
}

func newMemStore() *memStore {
	return &memStore{events: make(map[string]*domain.Event)}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%04d", prefix, s.seq)
}

func (s *memStore) attendeeCount(eventID string) int {
	n := 0
	for _, r := range s.regs {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

func (s *memStore) snapshot(ev *domain.Event) *domain.Event {
	cp := *ev
	cp.AttendeeCount = s.attendeeCount(ev.ID)
	cp.Attendees = nil
	return &cp
}

// addEvent stores ev directly and returns its id.
func (s *memStore) addEvent(ev *domain.Event) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = s.nextID("ev")
	}
	s.events[ev.ID] = ev
	return ev.ID
}

// register adds attendees bypassing the service.
func (s *memStore) register(eventID string, userIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range userIDs {
		s.regs = append(s.regs, &domain.EventRegistration{
			ID: s.nextID("reg"), EventID: eventID, UserID: u, CreatedAt: today,
		})
	}
}

type memEventRepo struct{ *memStore }

func (r memEventRepo) Create(_ context.Context, ev *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	ev.ID = r.nextID("ev")
	stored := *ev
	r.events[ev.ID] = &stored
	return nil
}

func (r memEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	ev, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.snapshot(ev), nil
}

func (r memEventRepo) sorted(filter func(*domain.Event) bool) []*domain.Event {
	var out []*domain.Event
	for _, ev := range r.events {
		if filter(ev) {
			out = append(out, r.snapshot(ev))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r memEventRepo) List(_ context.Context, params domain.PaginationParams) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	all := r.sorted(func(*domain.Event) bool { return true })
	if params.Limit() == 0 {
		return all, nil
	}
	start := params.Offset()
	if start >= len(all) {
		return []*domain.Event{}, nil
	}
	end := start + params.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r memEventRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return 0, r.failErr
	}
	return len(r.events), nil
}

func (r memEventRepo) ListByOrganizerID(_ context.Context, organizerID string) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(ev *domain.Event) bool { return ev.OrganizerID == organizerID }), nil
}

func (r memEventRepo) Update(_ context.Context, eventID string, in domain.EventInput) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	ev, ok := r.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Capacity < r.attendeeCount(eventID) {
		return nil, domain.ErrCapacityBelowAttendees
	}
	ev.Name, ev.Description, ev.Date, ev.Venue, ev.Capacity = in.Name, in.Description, in.Date, in.Venue, in.Capacity
	ev.UpdatedAt = today
	return r.snapshot(ev), nil
}

func (r memEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.events, id)
	kept := r.regs[:0]
	for _, reg := range r.regs {
		if reg.EventID != id {
			kept = append(kept, reg)
		}
	}
	r.regs = kept
	return nil
}

type memRegistrationRepo struct{ *memStore }

func (r memRegistrationRepo) Create(_ context.Context, reg *domain.EventRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	ev, ok := r.events[reg.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.regs {
		if existing.EventID == reg.EventID && existing.UserID == reg.UserID {
			return domain.ErrDuplicateRegistration
		}
	}
	if r.attendeeCount(reg.EventID) >= ev.Capacity {
		return domain.ErrAlreadyFull
	}
	reg.ID = r.nextID("reg")
	stored := *reg
	r.regs = append(r.regs, &stored)
	return nil
}

func (r memRegistrationRepo) Exists(_ context.Context, eventID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return false, r.failErr
	}
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r memRegistrationRepo) ListUserIDsByEventID(_ context.Context, eventID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0)
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			ids = append(ids, reg.UserID)
		}
	}
	return ids, nil
}

func (r memRegistrationRepo) ListByUserID(_ context.Context, userID string) ([]*domain.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	out := make([]*domain.EventRegistration, 0)
	for i := len(r.regs) - 1; i >= 0; i-- {
		if r.regs[i].UserID == userID {
			out = append(out, r.regs[i])
		}
	}
	return out, nil
}

var errStoreDown = errors.New("connection refused")

func validInput() domain.EventInput {
	return domain.EventInput{
		Name:        "Go Meetup",
		Description: "Monthly talks",
		Date:        daysFromToday(7),
		Venue:       "Main Hall",
		Capacity:    10,
	}
}
