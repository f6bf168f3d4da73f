package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() EventInput {
	return EventInput{
		Name:        "Aperitivo",
		Description: "Drinks by the sea",
		Date:        time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
		Venue:       "Beach Bar",
		Capacity:    10,
	}
}

func TestEvent_String(t *testing.T) {
	e := &Event{Name: "Test Event"}
	assert.Equal(t, "Test Event", e.String())
}

func TestEvent_IsFullyBooked(t *testing.T) {
	e := &Event{Capacity: 1}
	assert.False(t, e.IsFullyBooked())

	e.AttendeeCount = 1
	assert.True(t, e.IsFullyBooked())

	e.AttendeeCount = 2
	assert.True(t, e.IsFullyBooked())
}

func TestEvent_IsOrganizer(t *testing.T) {
	e := &Event{OrganizerID: "user-1"}
	assert.True(t, e.IsOrganizer("user-1"))
	assert.False(t, e.IsOrganizer("user-2"))
	assert.False(t, e.IsOrganizer(""))
}

func TestNewEvent_StartsEmpty(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	e := NewEvent(validInput(), "org-1", now, now)
	assert.Empty(t, e.ID)
	assert.Equal(t, "org-1", e.OrganizerID)
	assert.Equal(t, 0, e.AttendeeCount)
	assert.Empty(t, e.Attendees)
	assert.Equal(t, 10, e.Capacity)
}

func TestEventInput_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(in *EventInput)
		wantProblem string
	}{
		{name: "valid", mutate: func(in *EventInput) {}},
		{name: "empty description allowed", mutate: func(in *EventInput) { in.Description = "" }},
		{name: "missing name", mutate: func(in *EventInput) { in.Name = "" }, wantProblem: "name is required"},
		{name: "name too long", mutate: func(in *EventInput) { in.Name = strings.Repeat("a", MaxEventNameLength+1) }, wantProblem: "name must be at most 50 characters"},
		{name: "description too long", mutate: func(in *EventInput) { in.Description = strings.Repeat("d", MaxEventDescriptionLength+1) }, wantProblem: "description must be at most 200 characters"},
		{name: "missing venue", mutate: func(in *EventInput) { in.Venue = "" }, wantProblem: "venue is required"},
		{name: "venue too long", mutate: func(in *EventInput) { in.Venue = strings.Repeat("v", MaxEventVenueLength+1) }, wantProblem: "venue must be at most 100 characters"},
		{name: "capacity zero", mutate: func(in *EventInput) { in.Capacity = 0 }, wantProblem: "capacity must be at least 1"},
		{name: "capacity above max", mutate: func(in *EventInput) { in.Capacity = MaxEventCapacity + 1 }, wantProblem: "capacity must be at most 100"},
		{name: "missing date", mutate: func(in *EventInput) { in.Date = time.Time{} }, wantProblem: "date is required"},
		{name: "unparsable date", mutate: func(in *EventInput) { in.Date = time.Time{}; in.RawDate = "01/12/2026" }, wantProblem: "date must be in YYYY-MM-DD format"},
		{name: "raw date ignored once parsed", mutate: func(in *EventInput) { in.RawDate = "01/12/2026" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantProblem == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Problems, tt.wantProblem)
		})
	}
}

func TestEventInput_Validate_CountsCharactersNotBytes(t *testing.T) {
	in := validInput()
	in.Name = strings.Repeat("é", MaxEventNameLength)
	assert.NoError(t, in.Validate())
}

func TestEventInput_Validate_ReportsAllProblems(t *testing.T) {
	err := EventInput{}.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{
		"name is required",
		"venue is required",
		"capacity must be at least 1",
		"date is required",
	}, verr.Problems)
}

func TestEventInput_Normalize(t *testing.T) {
	in := EventInput{
		Name:  "  Party ",
		Venue: "\tHall\n",
		Date:  time.Date(2030, 3, 4, 18, 30, 0, 0, time.UTC),
	}
	in.Normalize()
	assert.Equal(t, "Party", in.Name)
	assert.Equal(t, "Hall", in.Venue)
	assert.Equal(t, time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC), in.Date)
}

func TestEarliestEventDate(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), EarliestEventDate(now))

	endOfYear := time.Date(2026, 12, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), EarliestEventDate(endOfYear))
}

func TestPastDateError(t *testing.T) {
	err := error(&PastDateError{Action: "create"})
	assert.Equal(t, "cannot create events in the past or today", err.Error())
	assert.True(t, errors.Is(err, ErrPastDate))

	err = &PastDateError{Action: "schedule"}
	assert.Equal(t, "cannot schedule events in the past or today", err.Error())
}

func TestPaginationParams(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PaginationParams{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, PaginationParams{Page: 0, PageSize: 20}.Offset())
	assert.Equal(t, 20, PaginationParams{Page: 2, PageSize: 20}.Limit())
	assert.Equal(t, 0, PaginationParams{}.Limit())
}
