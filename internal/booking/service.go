package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ms-booking/internal/apperrors"
	"ms-booking/internal/auth"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// maxReserveAttempts bounds retries on transient transaction conflicts.
const maxReserveAttempts = 3

type DBLayer interface {
	ReserveSeats(ctx context.Context, eventID, userID int64, seats int, reference string) (*models.Event, *models.Booking, error)
	ListAllBookings(ctx context.Context) ([]models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]models.BookingWithEvent, error)
}

type Cache interface {
	Invalidate(ctx context.Context) error
}

type Publisher interface {
	PublishBookingCreated(booking models.Booking) error
}

// Service is the reservation engine: the only component permitted to
// create booking rows or shrink an event's availability.
type Service struct {
	DB     DBLayer
	Cache  Cache
	Kafka  Publisher
	Logger *logger.Logger
}

func NewService(db DBLayer, cache Cache, kafka Publisher, log *logger.Logger) *Service {
	return &Service{DB: db, Cache: cache, Kafka: kafka, Logger: log}
}

// Reserve books seats on an event for the requester and returns the
// event's post-transaction state.
//
// Policy, in order: the requester's role must be exactly "user"; the event
// must exist; the reservation succeeds only if the availability check
// holds, otherwise the event is left untouched and ErrConflict surfaces.
// Requests for zero or negative seats are rejected outright, never booked
// as a no-op.
func (s *Service) Reserve(ctx context.Context, eventID int64, requester *models.User, seats int) (*models.Event, error) {
	if err := auth.RequireRole(requester, models.RoleUser); err != nil {
		s.Logger.LogSecurity("FORBIDDEN", fmt.Sprintf("user %s (role %s) attempted booking on event %d", requester.Email, requester.Role, eventID))
		return nil, fmt.Errorf("not authorized to book event, must be a user: %w", err)
	}
	if seats <= 0 {
		return nil, fmt.Errorf("seat count must be positive: %w", apperrors.ErrConflict)
	}

	reference := uuid.New().String()

	var event *models.Event
	var booked *models.Booking
	var err error
	for attempt := 1; attempt <= maxReserveAttempts; attempt++ {
		event, booked, err = s.DB.ReserveSeats(ctx, eventID, requester.ID, seats, reference)
		if err == nil || !isTransientTxError(err) {
			break
		}
		s.Logger.Warn("BOOKING", fmt.Sprintf("transient conflict reserving event %d (attempt %d/%d): %v", eventID, attempt, maxReserveAttempts, err))
	}
	if err != nil {
		return nil, err
	}

	s.Logger.LogBooking("RESERVED", reference, fmt.Sprintf("user %d booked %d seats on event %d, %d remaining", requester.ID, seats, eventID, event.AvailableSeats))

	// Post-commit effects. Both are best-effort: the booking is already
	// durable and must not be failed retroactively.
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("invalidate after booking %s: %v", reference, err))
	}
	if err := s.Kafka.PublishBookingCreated(*booked); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish booking %s: %v", reference, err))
	}

	return event, nil
}

// ListAll returns every booking in commit order for the audit view.
func (s *Service) ListAll(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.DB.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("no bookings found: %w", apperrors.ErrNotFound)
	}
	return bookings, nil
}

// ListForUser returns the requester's booking history with event context.
func (s *Service) ListForUser(ctx context.Context, user *models.User) ([]models.BookingWithEvent, error) {
	bookings, err := s.DB.ListBookingsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("no bookings found: %w", apperrors.ErrNotFound)
	}
	return bookings, nil
}

// isTransientTxError reports whether err is a serialization failure or
// deadlock that a fresh transaction may survive.
func isTransientTxError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
