package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventmanager/internal/delivery/http/helpers"
	"eventmanager/internal/delivery/http/middleware"
	"eventmanager/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testEventID = "8b0c1d2e-3f40-4a5b-8c6d-7e8f9a0b1c2d"
	testUserID  = "user-1"
)

var testCreatedAt = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func testEvent() *domain.Event {
	return &domain.Event{
		ID:            testEventID,
		Name:          "Go Meetup",
		Description:   "Monthly talks",
		Date:          time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
		Venue:         "Main Hall",
		OrganizerID:   testUserID,
		Capacity:      2,
		AttendeeCount: 1,
		CreatedAt:     testCreatedAt,
		UpdatedAt:     testCreatedAt,
	}
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event      *domain.Event
	events     []*domain.Event
	total      int
	err        error
	lastInput  domain.EventInput
	lastCaller string
	lastID     string
	lastParams domain.PaginationParams
}

func (f *fakeEventService) CreateEvent(_ context.Context, input domain.EventInput, organizerID string) (*domain.Event, error) {
	f.lastInput, f.lastCaller = input, organizerID
	return f.event, f.err
}

func (f *fakeEventService) GetEvent(_ context.Context, eventID string) (*domain.Event, error) {
	f.lastID = eventID
	return f.event, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, eventID string, input domain.EventInput, callerID string) (*domain.Event, error) {
	f.lastID, f.lastInput, f.lastCaller = eventID, input, callerID
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, eventID, callerID string) error {
	f.lastID, f.lastCaller = eventID, callerID
	return f.err
}

func (f *fakeEventService) ListUpcoming(_ context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastParams = params
	return f.events, f.total, f.err
}

func (f *fakeEventService) ListByOrganizer(_ context.Context, organizerID string) ([]*domain.Event, error) {
	f.lastCaller = organizerID
	return f.events, f.err
}

// fakeAttendeeService implements domain.AttendeeService for handler tests.
type fakeAttendeeService struct {
	reg        *domain.EventRegistration
	items      []*domain.EventRegistrationWithEvent
	err        error
	lastEvent  string
	lastUserID string
}

func (f *fakeAttendeeService) RegisterForEvent(_ context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	f.lastEvent, f.lastUserID = eventID, userID
	return f.reg, f.err
}

func (f *fakeAttendeeService) ListMyRegisteredEvents(_ context.Context, userID string) ([]*domain.EventRegistrationWithEvent, error) {
	f.lastUserID = userID
	return f.items, f.err
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	user        *domain.User
	token       string
	err         error
	lastName    string
	lastPass    string
	lastConfirm string
}

func (f *fakeAuthService) SignUp(_ context.Context, username, password, confirm string) (*domain.User, error) {
	f.lastName, f.lastPass, f.lastConfirm = username, password, confirm
	return f.user, f.err
}

func (f *fakeAuthService) Login(_ context.Context, username, password string) (string, *domain.User, error) {
	f.lastName, f.lastPass = username, password
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.lastName = id
	return f.user, f.err
}

// newRequest builds a request with an optional JSON body, path value and authenticated user.
func newRequest(method, target, body string, pathEventID, userID string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if pathEventID != "" {
		req.SetPathValue("eventID", pathEventID)
	}
	if userID != "" {
		req = req.WithContext(middleware.SetUserID(req.Context(), userID))
	}
	return req
}

// decodeEnvelope decodes the response envelope, unmarshaling data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if dest != nil {
		require.NoError(t, json.Unmarshal(raw.Data, dest))
	}
	return raw.Error
}
