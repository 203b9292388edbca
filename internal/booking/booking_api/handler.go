package booking_api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

type Handler struct {
	BookingService *booking.Service
	Logger         *logger.Logger
}

func NewHandler(bookingService *booking.Service, log *logger.Logger) *Handler {
	return &Handler{BookingService: bookingService, Logger: log}
}

// BookEvent handles POST /events/{id}/book?seats=N and responds with the
// event's post-booking state.
func (h *Handler) BookEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.BadRequest(w, "invalid event id")
		return
	}

	seatsParam := r.URL.Query().Get("seats")
	if seatsParam == "" {
		utils.BadRequest(w, "seats query parameter is required")
		return
	}
	seats, err := strconv.Atoi(seatsParam)
	if err != nil {
		utils.BadRequest(w, "seats must be an integer")
		return
	}

	user := auth.CurrentUser(r.Context())
	h.Logger.Info("API", fmt.Sprintf("BookEvent: event=%d seats=%d user=%s", eventID, seats, user.Email))

	event, err := h.BookingService.Reserve(r.Context(), eventID, user, seats)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("BookEvent: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, event)
}

// AdminBookings handles GET /admin/bookings. Admin only, exact role match.
func (h *Handler) AdminBookings(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())
	if err := auth.RequireRole(user, models.RoleAdmin); err != nil {
		h.Logger.LogSecurity("FORBIDDEN", fmt.Sprintf("user %s (role %s) requested the booking audit", user.Email, user.Role))
		utils.WriteError(w, fmt.Errorf("not authorized to check bookings, must be an admin: %w", err))
		return
	}

	bookings, err := h.BookingService.ListAll(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, bookings)
}

// MyBookings handles GET /users/me/bookings.
func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())

	bookings, err := h.BookingService.ListForUser(r.Context(), user)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, bookings)
}
