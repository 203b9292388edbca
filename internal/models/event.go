package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID             int64     `bun:"id,pk,autoincrement" json:"event_id"`
	Name           string    `bun:"name,notnull" json:"event_name"`
	Venue          string    `bun:"venue,notnull" json:"event_venue"`
	Date           time.Time `bun:"date,notnull" json:"event_date"`
	AvailableSeats int       `bun:"available_seats,notnull" json:"event_availibility"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"-"`
}

// CreateEventRequest keeps the original wire field names, including the
// historical "availibility" spelling clients already depend on.
type CreateEventRequest struct {
	EventName         string    `json:"event_name"`
	EventVenue        string    `json:"event_venue"`
	EventDate         time.Time `json:"event_date"`
	EventAvailibility int       `json:"event_availibility"`
}

// EventFilter holds the optional case-insensitive substring filters for
// listing events.
type EventFilter struct {
	Name  string
	Venue string
}
