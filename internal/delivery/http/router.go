package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventmanager/internal/delivery/http/controllers"
	"eventmanager/internal/delivery/http/helpers"
	"eventmanager/internal/delivery/http/middleware"
	"eventmanager/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Event    *controllers.EventController
	Attendee *controllers.AttendeeController
	Auth     *controllers.AuthController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	mux.HandleFunc("GET /health", health)

	// Events
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/mine", auth(c.Event.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("PUT /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))

	// Attendees
	mux.HandleFunc("POST /events/{eventID}/attendees", auth(c.Attendee.RegisterForEvent))
	mux.HandleFunc("GET /attendee/events", auth(c.Attendee.ListMyRegisteredEvents))

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /users/me", auth(c.Auth.Me))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the request pipeline shared by every route.
func NewHandler(mux http.Handler, logger *slog.Logger, allowedOrigins []string) http.Handler {
	var h http.Handler = mux
	h = middleware.CORS(allowedOrigins, h)
	h = middleware.Recover(logger, h)
	h = middleware.LoggingMiddleware(logger, h)
	return middleware.RequestID(h)
}

// health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /health [get]
func health(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
