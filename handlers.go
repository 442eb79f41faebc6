package main

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cor0nius/cityreg/internal/database"
	"github.com/cor0nius/cityreg/internal/registration"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Bot handlers are called by the messaging gateway: one request per update
// from a user. They translate the registration outcome into a JSON body the
// gateway renders as a reply.

type startRequest struct {
	User    registration.User `json:"user"`
	EventID string            `json:"event_id"`
}

type messageRequest struct {
	User registration.User `json:"user"`
	Text string            `json:"text"`
}

type actionRequest struct {
	User  registration.User `json:"user"`
	Token string            `json:"token"`
}

// respondWithOutcome maps the result of a registration call to a response.
func (cfg *apiConfig) respondWithOutcome(w http.ResponseWriter, out registration.Outcome, err error) {
	switch {
	case err == nil:
		cfg.respondWithJSON(w, http.StatusOK, out)
	case errors.Is(err, registration.ErrStoreWrite):
		cfg.logger.Error("registration not saved", "error", err)
		cfg.respondWithJSON(w, http.StatusServiceUnavailable, out)
	case errors.Is(err, registration.ErrMalformedAction):
		cfg.respondWithError(w, http.StatusBadRequest, "Malformed action token", nil)
	case errors.Is(err, registration.ErrConfirmationExpired):
		cfg.respondWithError(w, http.StatusConflict, "Confirmation expired", nil)
	case errors.Is(err, registration.ErrEventNotFound):
		cfg.respondWithError(w, http.StatusNotFound, "Event not found", nil)
	default:
		cfg.respondWithError(w, http.StatusInternalServerError, "Error processing registration", err)
	}
}

// @Summary      Start registration
// @Description  Called when a user opens an invite link. An empty event_id targets the default event.
// @Tags         bot
// @Accept       json
// @Produce      json
// @Param        request body     startRequest  true  "User and event"
// @Success      200     {object} registration.Outcome
// @Failure      400     {object} errorResponse "Bad Request - Invalid body"
// @Failure      404     {object} errorResponse "Event not found or inactive"
// @Router       /bot/start [post]
func (cfg *apiConfig) handlerBotStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if req.User.ID == 0 {
		cfg.respondWithError(w, http.StatusBadRequest, "Missing user id", nil)
		return
	}
	cfg.logger.Debug("bot start", "user_id", req.User.ID, "event_id", req.EventID)

	out, err := cfg.registrations.Start(r.Context(), req.User, req.EventID)
	cfg.respondWithOutcome(w, out, err)
}

// @Summary      Text message
// @Description  Plain text from a user. Users outside a registration flow get an "ignored" outcome.
// @Tags         bot
// @Accept       json
// @Produce      json
// @Param        request body     messageRequest  true  "User and text"
// @Success      200     {object} registration.Outcome
// @Failure      400     {object} errorResponse
// @Failure      503     {object} registration.Outcome "Registration could not be saved"
// @Router       /bot/message [post]
func (cfg *apiConfig) handlerBotMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if req.User.ID == 0 {
		cfg.respondWithError(w, http.StatusBadRequest, "Missing user id", nil)
		return
	}

	out, err := cfg.registrations.HandleMessage(r.Context(), req.User, req.Text)
	cfg.respondWithOutcome(w, out, err)
}

// @Summary      Confirmation button
// @Description  Answer to a city suggestion, carrying the token from a confirmation_needed outcome.
// @Tags         bot
// @Accept       json
// @Produce      json
// @Param        request body     actionRequest  true  "User and token"
// @Success      200     {object} registration.Outcome
// @Failure      400     {object} errorResponse "Malformed action token"
// @Failure      409     {object} errorResponse "Confirmation expired"
// @Failure      503     {object} registration.Outcome "Registration could not be saved"
// @Router       /bot/action [post]
func (cfg *apiConfig) handlerBotAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if req.User.ID == 0 {
		cfg.respondWithError(w, http.StatusBadRequest, "Missing user id", nil)
		return
	}

	out, err := cfg.registrations.HandleAction(r.Context(), req.User, req.Token)
	cfg.respondWithOutcome(w, out, err)
}

// --- Admin ---

type eventResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     int64     `json:"created_by"`
	Active        bool      `json:"active"`
	Link          string    `json:"link,omitempty"`
	Registrations *int64    `json:"registrations,omitempty"`
	Attempts      *int64    `json:"attempts,omitempty"`
}

func (cfg *apiConfig) eventResponse(event registration.Event) eventResponse {
	return eventResponse{
		ID:        event.ID,
		Name:      event.Name,
		CreatedAt: event.CreatedAt,
		CreatedBy: event.CreatedBy,
		Active:    event.Active,
		Link:      eventLink(cfg.botUsername, event.ID),
	}
}

type createEventRequest struct {
	Name string `json:"name"`
}

// @Summary      List events
// @Description  All events, newest first, with registration and open attempt counts.
// @Tags         admin
// @Produce      json
// @Param        X-Admin-ID header   int  true  "Admin user id"
// @Success      200  {array}   eventResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/events [get]
func (cfg *apiConfig) handlerListEvents(w http.ResponseWriter, r *http.Request) {
	rows, err := cfg.dbQueries.ListEventsWithCounts(r.Context())
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error listing events", err)
		return
	}

	events := make([]eventResponse, len(rows))
	for i, row := range rows {
		resp := cfg.eventResponse(registration.Event{
			ID:        row.ID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
			CreatedBy: row.CreatedBy,
			Active:    row.Active,
		})
		resp.Registrations = &row.RegistrationCount
		resp.Attempts = &row.AttemptCount
		events[i] = resp
	}
	cfg.respondWithJSON(w, http.StatusOK, events)
}

// @Summary      Create event
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        X-Admin-ID header   int                 true  "Admin user id"
// @Param        request    body     createEventRequest  true  "Event name"
// @Success      201  {object}  eventResponse
// @Failure      400  {object}  errorResponse "Name shorter than 2 characters"
// @Failure      403  {object}  errorResponse
// @Router       /admin/events [post]
func (cfg *apiConfig) handlerCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < 2 {
		cfg.respondWithError(w, http.StatusBadRequest, "Event name must be at least 2 characters", nil)
		return
	}

	dbEvent, err := cfg.dbQueries.CreateEvent(r.Context(), database.CreateEventParams{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: cfg.clock.Now(),
		CreatedBy: adminIDFromContext(r.Context()),
		Active:    true,
	})
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error creating event", err)
		return
	}
	cfg.logger.Info("event created", "event_id", dbEvent.ID, "name", dbEvent.Name, "created_by", dbEvent.CreatedBy)
	cfg.respondWithJSON(w, http.StatusCreated, cfg.eventResponse(databaseEventToEvent(dbEvent)))
}

// @Summary      Get event
// @Tags         admin
// @Produce      json
// @Param        X-Admin-ID header  int     true  "Admin user id"
// @Param        id         path    string  true  "Event id"
// @Success      200  {object}  eventResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/events/{id} [get]
func (cfg *apiConfig) handlerGetEvent(w http.ResponseWriter, r *http.Request) {
	dbEvent, err := cfg.dbQueries.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		cfg.respondWithError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error getting event", err)
		return
	}
	cfg.respondWithJSON(w, http.StatusOK, cfg.eventResponse(databaseEventToEvent(dbEvent)))
}

// @Summary      Delete event
// @Description  Deletes an event with its registrations. The default event cannot be deleted.
// @Tags         admin
// @Param        X-Admin-ID header  int     true  "Admin user id"
// @Param        id         path    string  true  "Event id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/events/{id} [delete]
func (cfg *apiConfig) handlerDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == registration.DefaultEventID {
		cfg.respondWithError(w, http.StatusBadRequest, "The default event cannot be deleted", nil)
		return
	}

	n, err := cfg.dbQueries.DeleteEvent(r.Context(), id)
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error deleting event", err)
		return
	}
	if n == 0 {
		cfg.respondWithError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	cfg.logger.Info("event deleted", "event_id", id, "admin_id", adminIDFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Toggle event
// @Description  Opens or closes an event for new registrations. The default event is always open.
// @Tags         admin
// @Produce      json
// @Param        X-Admin-ID header  int     true  "Admin user id"
// @Param        id         path    string  true  "Event id"
// @Success      200  {object}  eventResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/events/{id}/toggle [post]
func (cfg *apiConfig) handlerToggleEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == registration.DefaultEventID {
		cfg.respondWithError(w, http.StatusBadRequest, "The default event cannot be toggled", nil)
		return
	}

	dbEvent, err := cfg.dbQueries.ToggleEventActive(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		cfg.respondWithError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error toggling event", err)
		return
	}
	cfg.logger.Info("event toggled", "event_id", id, "active", dbEvent.Active)
	cfg.respondWithJSON(w, http.StatusOK, cfg.eventResponse(databaseEventToEvent(dbEvent)))
}

// @Summary      Registration statistics
// @Description  Total and per-city counts, globally or for one event.
// @Tags         admin
// @Produce      json
// @Param        X-Admin-ID header  int     true   "Admin user id"
// @Param        event_id   query   string  false  "Restrict to one event"
// @Success      200  {object}  statsResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/stats [get]
func (cfg *apiConfig) handlerStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := r.URL.Query().Get("event_id")

	var counts []cityCount
	if eventID == "" {
		rows, err := cfg.dbQueries.CountCities(ctx)
		if err != nil {
			cfg.respondWithError(w, http.StatusInternalServerError, "Error getting statistics", err)
			return
		}
		for _, row := range rows {
			counts = append(counts, cityCount{City: row.City, Count: row.Count})
		}
	} else {
		if !cfg.eventExists(w, r, eventID) {
			return
		}
		rows, err := cfg.dbQueries.CountCitiesByEvent(ctx, eventID)
		if err != nil {
			cfg.respondWithError(w, http.StatusInternalServerError, "Error getting statistics", err)
			return
		}
		for _, row := range rows {
			counts = append(counts, cityCount{City: row.City, Count: row.Count})
		}
	}

	cfg.respondWithJSON(w, http.StatusOK, buildStats(eventID, counts, cfg.statsTopN))
}

// @Summary      Export registrations
// @Description  CSV with columns UserID,EventID,Username,FirstName,LastName,City,RegisteredAt.
// @Tags         admin
// @Produce      text/csv
// @Param        X-Admin-ID header  int     true   "Admin user id"
// @Param        event_id   query   string  false  "Restrict to one event"
// @Success      200  {string}  string
// @Failure      404  {object}  errorResponse
// @Router       /admin/export [get]
func (cfg *apiConfig) handlerExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := r.URL.Query().Get("event_id")

	var (
		rows []database.Registration
		err  error
	)
	if eventID == "" {
		rows, err = cfg.dbQueries.ListRegistrations(ctx)
	} else {
		if !cfg.eventExists(w, r, eventID) {
			return
		}
		rows, err = cfg.dbQueries.ListRegistrationsByEvent(ctx, eventID)
	}
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error exporting registrations", err)
		return
	}

	regs := make([]registration.Registration, len(rows))
	for i, row := range rows {
		regs[i] = databaseRegistrationToRegistration(row)
	}

	var buf bytes.Buffer
	if err := writeRegistrationsCSV(&buf, regs); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error exporting registrations", err)
		return
	}

	filename := "registrations.csv"
	if eventID != "" {
		filename = "registrations-" + eventID + ".csv"
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		cfg.logger.Error("error writing response", "error", err)
	}
}

// eventExists writes a 404 (or 500) and returns false when eventID cannot be used.
func (cfg *apiConfig) eventExists(w http.ResponseWriter, r *http.Request, eventID string) bool {
	_, err := cfg.dbQueries.GetEvent(r.Context(), eventID)
	if errors.Is(err, sql.ErrNoRows) {
		cfg.respondWithError(w, http.StatusNotFound, "Event not found", nil)
		return false
	}
	if err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error getting event", err)
		return false
	}
	return true
}

// @Summary      Liveness
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (cfg *apiConfig) handlerHealthz(w http.ResponseWriter, r *http.Request) {
	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
