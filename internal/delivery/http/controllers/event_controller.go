package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventmanager/internal/delivery/http/helpers"
	"eventmanager/internal/domain"
)

// EventRequest is the request body for POST /events and PUT /events/{eventID}.
// Update replaces every field, so the same body is required in both cases.
type EventRequest struct {
	Name        string `json:"name" example:"Go Meetup"`
	Description string `json:"description" example:"Monthly talks and pizza"`
	Date        string `json:"date" example:"2026-12-01"`
	Venue       string `json:"venue" example:"Main Hall"`
	Capacity    int    `json:"capacity" example:"50"`
}

// toInput converts the body for the service. The date is not rejected here:
// an unparsable value travels as RawDate so the service can report it after
// the caller has been authorized.
func (e EventRequest) toInput() domain.EventInput {
	raw := strings.TrimSpace(e.Date)
	in := domain.EventInput{
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.Venue,
		Capacity:    e.Capacity,
	}
	if date, err := time.Parse(domain.DateLayout, raw); err == nil {
		in.Date = date
	} else {
		in.RawDate = raw
	}
	return in
}

// EventResponse is the wire form of an event. Date is rendered as YYYY-MM-DD.
type EventResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Date          string    `json:"date"`
	Venue         string    `json:"venue"`
	OrganizerID   string    `json:"organizer_id"`
	Capacity      int       `json:"capacity"`
	AttendeeCount int       `json:"attendee_count"`
	IsFullyBooked bool      `json:"is_fully_booked"`
	Attendees     []string  `json:"attendees,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:            e.ID,
		Name:          e.Name,
		Description:   e.Description,
		Date:          e.Date.Format(domain.DateLayout),
		Venue:         e.Venue,
		OrganizerID:   e.OrganizerID,
		Capacity:      e.Capacity,
		AttendeeCount: e.AttendeeCount,
		IsFullyBooked: e.IsFullyBooked(),
		Attendees:     e.Attendees,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func newEventResponses(events []*domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, newEventResponse(e))
	}
	return out
}

// EventSuccessResponse is the success envelope for single-event responses.
type EventSuccessResponse struct {
	Data  EventResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the data payload of GET /events.
type ListEventsResponse struct {
	Items      []EventResponse        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListMyEventsSuccessResponse is the success envelope for GET /events/mine (200).
type ListMyEventsSuccessResponse struct {
	Data  []EventResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeleteEventResponse is the data payload of DELETE /events/{eventID}.
type DeleteEventResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns events ordered by date, earliest first, with pagination metadata. A page past the last returns no items and prev_page points at the last page.
// @Tags events
// @Produce json
// @Param page query int false "Page number (default 1, max 1000000)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListUpcoming(r.Context(), params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Items:      newEventResponses(events),
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// ListMyEvents godoc
// @Summary List my events
// @Description Returns the events organized by the authenticated user.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/mine [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListByOrganizer(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newEventResponses(events))
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its attendee count and the IDs of registered attendees.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newEventResponse(event))
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event organized by the authenticated user. The date must be tomorrow or later.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body controllers.EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, validation_error or past_date"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), req.toInput(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, newEventResponse(event))
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Replaces the event's fields. Only the organizer may update; capacity cannot drop below the attendee count.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body controllers.EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, validation_error or past_date"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, req.toInput(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newEventResponse(event))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and all of its registrations. Only the organizer may delete.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains id and deleted=true"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{ID: eventID, Deleted: true})
}
