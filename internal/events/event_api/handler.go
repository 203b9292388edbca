package event_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/auth"
	"ms-booking/internal/events"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

type Handler struct {
	EventService *events.Service
	Logger       *logger.Logger
}

func NewHandler(eventService *events.Service, log *logger.Logger) *Handler {
	return &Handler{EventService: eventService, Logger: log}
}

// CreateEvent handles POST /events. Admin only, exact role match.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())
	if err := auth.RequireRole(user, models.RoleAdmin); err != nil {
		h.Logger.LogSecurity("FORBIDDEN", fmt.Sprintf("user %s (role %s) attempted event creation", user.Email, user.Role))
		utils.WriteError(w, fmt.Errorf("not authorized to create event, must be an admin: %w", err))
		return
	}

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}
	if req.EventName == "" || req.EventVenue == "" {
		utils.BadRequest(w, "event_name and event_venue are required")
		return
	}
	if req.EventAvailibility < 0 {
		utils.BadRequest(w, "event_availibility must be non-negative")
		return
	}

	event, err := h.EventService.Create(r.Context(), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, event)
}

// GetEvent handles GET /events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.BadRequest(w, "invalid event id")
		return
	}

	event, err := h.EventService.Get(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, event)
}

// ListEvents handles GET /events with optional ?name and ?venue filters.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := models.EventFilter{
		Name:  r.URL.Query().Get("name"),
		Venue: r.URL.Query().Get("venue"),
	}

	list, err := h.EventService.List(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, list)
}
