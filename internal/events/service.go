package events

import (
	"context"
	"fmt"
	"time"

	"ms-booking/internal/apperrors"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type DBLayer interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
}

type Cache interface {
	GetList(ctx context.Context, filter models.EventFilter) ([]models.Event, bool, error)
	SetList(ctx context.Context, filter models.EventFilter, events []models.Event) error
	Invalidate(ctx context.Context) error
}

// Service is the inventory ledger's read/create side. The seat counter is
// only ever decremented through the reservation engine, never here.
type Service struct {
	DB     DBLayer
	Cache  Cache
	Logger *logger.Logger
}

func NewService(db DBLayer, cache Cache, log *logger.Logger) *Service {
	return &Service{DB: db, Cache: cache, Logger: log}
}

// Create adds an event with its initial availability. Seats must be
// non-negative; the handler validates that before calling in.
func (s *Service) Create(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Name:           req.EventName,
		Venue:          req.EventVenue,
		Date:           req.EventDate,
		AvailableSeats: req.EventAvailibility,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("invalidate after event create: %v", err))
	}
	s.Logger.LogDatabase("INSERT", "events", fmt.Sprintf("event %q created with %d seats", event.Name, event.AvailableSeats))
	return event, nil
}

// List returns events matching the filters. An empty result set is
// surfaced as ErrNotFound rather than an empty payload; that contract is
// part of the external surface.
func (s *Service) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	if cached, ok, err := s.Cache.GetList(ctx, filter); err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("event list lookup: %v", err))
	} else if ok {
		s.Logger.Debug("CACHE", fmt.Sprintf("event list served from cache (%d events)", len(cached)))
		if len(cached) == 0 {
			return nil, fmt.Errorf("no events found: %w", apperrors.ErrNotFound)
		}
		return cached, nil
	}

	events, err := s.DB.ListEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no events found: %w", apperrors.ErrNotFound)
	}

	if err := s.Cache.SetList(ctx, filter, events); err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("event list store: %v", err))
	}
	return events, nil
}

// Get returns one event by ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.Event, error) {
	return s.DB.GetEvent(ctx, id)
}
