package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-booking/internal/apperrors"
	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ReserveSeats executes the reservation critical section: a conditional
// decrement of the event's availability and the append of the booking
// record, in one transaction. No observer can see one without the other.
//
// The decrement is guarded in SQL rather than checked in Go, so two
// concurrent reservations against the same row cannot both pass a stale
// availability check: the row lock taken by the UPDATE serialises them,
// and the loser's WHERE clause no longer matches.
func (d *DB) ReserveSeats(ctx context.Context, eventID, userID int64, seats int, reference string) (*models.Event, *models.Booking, error) {
	var event models.Event
	var booking models.Booking

	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Event)(nil)).
			Set("available_seats = available_seats - ?", seats).
			Where("id = ?", eventID).
			Where("available_seats > 0").
			Where("available_seats - ? >= 0", seats).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("decrement availability: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement availability: %w", err)
		}
		if rows == 0 {
			exists, err := tx.NewSelect().
				Model((*models.Event)(nil)).
				Where("id = ?", eventID).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("check event: %w", err)
			}
			if !exists {
				return fmt.Errorf("event %d: %w", eventID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("insufficient availability: %w", apperrors.ErrConflict)
		}

		if err := tx.NewSelect().
			Model(&event).
			Where("id = ?", eventID).
			Scan(ctx); err != nil {
			return fmt.Errorf("reload event: %w", err)
		}

		booking = models.Booking{
			Reference:        reference,
			UserID:           userID,
			EventID:          eventID,
			SeatsBooked:      seats,
			RemainingTickets: event.AvailableSeats,
			BookingTime:      time.Now().UTC(),
		}
		if _, err := tx.NewInsert().Model(&booking).Exec(ctx); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &event, &booking, nil
}

// ListAllBookings returns every booking, oldest first, which matches the
// commit order of the audit trail.
func (d *DB) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Order("booking_time ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ListBookingsByUser returns a user's bookings, each paired with the
// minimal event context needed for display.
func (d *DB) ListBookingsByUser(ctx context.Context, userID int64) ([]models.BookingWithEvent, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("user_id = ?", userID).
		Order("booking_time DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	if len(bookings) == 0 {
		return []models.BookingWithEvent{}, nil
	}

	eventIDs := make([]int64, 0, len(bookings))
	seen := make(map[int64]bool)
	for _, b := range bookings {
		if !seen[b.EventID] {
			seen[b.EventID] = true
			eventIDs = append(eventIDs, b.EventID)
		}
	}

	var events []models.Event
	err = d.Bun.NewSelect().
		Model(&events).
		Where("id IN (?)", bun.In(eventIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load booking events: %w", err)
	}

	summaries := make(map[int64]models.EventSummary, len(events))
	for _, e := range events {
		summaries[e.ID] = models.EventSummary{EventName: e.Name, EventDate: e.Date}
	}

	result := make([]models.BookingWithEvent, len(bookings))
	for i, b := range bookings {
		result[i] = models.BookingWithEvent{
			Booking: b,
			Event:   summaries[b.EventID],
		}
	}
	return result, nil
}
