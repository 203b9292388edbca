package booking_api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/booking/booking_api"
	booking_db "ms-booking/internal/booking/db"
	"ms-booking/internal/events"
	"ms-booking/internal/events/cache"
	events_db "ms-booking/internal/events/db"
	"ms-booking/internal/events/event_api"
	"ms-booking/internal/kafka"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/users"
	users_db "ms-booking/internal/users/db"
	"ms-booking/internal/users/user_api"
)

// newTestServer wires the full HTTP surface over an in-memory database,
// mirroring the production router.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	ctx := context.Background()
	require.NoError(t, bunDB.ResetModel(ctx, (*models.User)(nil)))
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Event)(nil)))
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Booking)(nil)))
	t.Cleanup(func() { bunDB.Close() })

	log := logger.NewLogger()
	t.Cleanup(func() { log.Close() })

	tokenService := auth.NewTokenService("test-secret", 30*time.Minute)
	eventCache := cache.NewEventCache(nil, 0)

	userService := users.NewService(&users_db.DB{Bun: bunDB}, tokenService, log)
	eventService := events.NewService(&events_db.DB{Bun: bunDB}, eventCache, log)
	bookingService := booking.NewService(&booking_db.DB{Bun: bunDB}, eventCache, kafka.NoopProducer{}, log)

	userHandler := user_api.NewHandler(userService, log)
	eventHandler := event_api.NewHandler(eventService, log)
	bookingHandler := booking_api.NewHandler(bookingService, log)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Post("/login", userHandler.Login)
	r.Post("/users", userHandler.CreateUser)
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenService, userService))
		r.Get("/users/me", userHandler.CurrentUser)
		r.Get("/users/me/bookings", bookingHandler.MyBookings)
		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.CreateEvent)
			r.Get("/", eventHandler.ListEvents)
			r.Get("/{id}", eventHandler.GetEvent)
			r.Post("/{id}/book", bookingHandler.BookEvent)
		})
		r.Get("/admin/bookings", bookingHandler.AdminBookings)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func register(t *testing.T, base, name, email string, role models.Role) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/users", "", models.RegisterUserRequest{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, base, email string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/login", "", models.LoginRequest{
		Email:    email,
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token models.TokenResponse
	decodeBody(t, resp, &token)
	require.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
	return token.AccessToken
}

func TestBookingLifecycle(t *testing.T) {
	server := newTestServer(t)
	base := server.URL

	register(t, base, "Alice Admin", "a@x.com", models.RoleAdmin)
	register(t, base, "Bob", "b@x.com", models.RoleUser)
	adminToken := login(t, base, "a@x.com")
	userToken := login(t, base, "b@x.com")

	// Nothing exists yet: the catalog reports not found, not an empty list.
	resp := doJSON(t, http.MethodGet, base+"/events", userToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Admin publishes a two-seat event.
	resp = doJSON(t, http.MethodPost, base+"/events/", adminToken, models.CreateEventRequest{
		EventName:         "Concert",
		EventVenue:        "City Hall",
		EventDate:         time.Now().UTC().AddDate(0, 1, 0),
		EventAvailibility: 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Event
	decodeBody(t, resp, &created)
	require.NotZero(t, created.ID)
	assert.Equal(t, 2, created.AvailableSeats)

	bookURL := fmt.Sprintf("%s/events/%d/book?seats=", base, created.ID)

	// Bob takes one seat and the response shows the post-booking counter.
	resp = doJSON(t, http.MethodPost, bookURL+"1", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var afterBooking models.Event
	decodeBody(t, resp, &afterBooking)
	assert.Equal(t, 1, afterBooking.AvailableSeats)

	// Two more seats cannot fit into the one remaining.
	resp = doJSON(t, http.MethodPost, bookURL+"2", userToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The failed attempt must not have touched the counter.
	resp = doJSON(t, http.MethodGet, base+"/events?name=concert", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []models.Event
	decodeBody(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, listed[0].AvailableSeats)

	// Admins manage events, they do not book them.
	resp = doJSON(t, http.MethodPost, bookURL+"1", adminToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The audit trail carries the availability snapshot.
	resp = doJSON(t, http.MethodGet, base+"/admin/bookings", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var audit []models.Booking
	decodeBody(t, resp, &audit)
	require.Len(t, audit, 1)
	assert.Equal(t, 1, audit[0].SeatsBooked)
	assert.Equal(t, 1, audit[0].RemainingTickets)
	assert.NotEmpty(t, audit[0].Reference)

	// Bob sees his own history with the event attached.
	resp = doJSON(t, http.MethodGet, base+"/users/me/bookings", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []models.BookingWithEvent
	decodeBody(t, resp, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "Concert", mine[0].Event.EventName)

	// The audit endpoint is for admins only.
	resp = doJSON(t, http.MethodGet, base+"/admin/bookings", userToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	server := newTestServer(t)
	base := server.URL

	for _, path := range []string{"/users/me", "/events/", "/admin/bookings", "/users/me/bookings"} {
		resp := doJSON(t, http.MethodGet, base+path, "", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"), path)
	}
}

func TestBookEventValidation(t *testing.T) {
	server := newTestServer(t)
	base := server.URL

	register(t, base, "Bob", "b@x.com", models.RoleUser)
	userToken := login(t, base, "b@x.com")

	// seats is mandatory and must parse.
	resp := doJSON(t, http.MethodPost, base+"/events/1/book", userToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/events/1/book?seats=abc", userToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/events/nope/book?seats=1", userToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// An event that does not exist is reported as such.
	resp = doJSON(t, http.MethodPost, base+"/events/9999/book?seats=1", userToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
