package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking is an append-only audit record of a successful reservation.
// RemainingTickets is the event's counter as it stood immediately after
// this transaction, not a live reference.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	Reference        string    `bun:"reference,notnull" json:"reference"`
	UserID           int64     `bun:"user_id,notnull" json:"user_id"`
	EventID          int64     `bun:"event_id,notnull" json:"event_id"`
	SeatsBooked      int       `bun:"seats_booked,notnull" json:"seats_booked"`
	RemainingTickets int       `bun:"remaining_tickets,notnull" json:"remaining_tickets"`
	BookingTime      time.Time `bun:"booking_time,notnull" json:"booking_time"`
}

// EventSummary is the minimal event context attached to a booking in
// history responses.
type EventSummary struct {
	EventName string    `json:"event_name"`
	EventDate time.Time `json:"event_date"`
}

type BookingWithEvent struct {
	Booking
	Event EventSummary `json:"event"`
}
