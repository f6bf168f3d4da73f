package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventmanager/internal/delivery/http/helpers"
	"eventmanager/internal/domain"
)

// RegistrationResponse is the wire form of an attendance record.
type RegistrationResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func newRegistrationResponse(reg *domain.EventRegistration) RegistrationResponse {
	return RegistrationResponse{
		ID:        reg.ID,
		EventID:   reg.EventID,
		UserID:    reg.UserID,
		CreatedAt: reg.CreatedAt,
	}
}

// RegisterForEventSuccessResponse is the success envelope for POST /events/{eventID}/attendees (201).
type RegisterForEventSuccessResponse struct {
	Data  RegistrationResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RegisteredEventResponse pairs a registration with its event.
type RegisteredEventResponse struct {
	Registration RegistrationResponse `json:"registration"`
	Event        EventResponse        `json:"event"`
}

// ListMyRegisteredEventsSuccessResponse is the success envelope for GET /attendee/events (200).
type ListMyRegisteredEventsSuccessResponse struct {
	Data  []RegisteredEventResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterForEvent godoc
// @Summary Register for an event
// @Description Adds the authenticated user to the event's attendees. Fails when the user is already registered or the event is fully booked.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.RegisterForEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_registered or event_full"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees [post]
func (c *AttendeeController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.RegisterForEvent(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, newRegistrationResponse(reg))
}

// ListMyRegisteredEvents godoc
// @Summary Get events the current user is registered for
// @Description Returns the events the authenticated user is registered for, newest registration first.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyRegisteredEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendee/events [get]
func (c *AttendeeController) ListMyRegisteredEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListMyRegisteredEvents(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	out := make([]RegisteredEventResponse, 0, len(items))
	for _, item := range items {
		out = append(out, RegisteredEventResponse{
			Registration: newRegistrationResponse(item.Registration),
			Event:        newEventResponse(item.Event),
		})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}
