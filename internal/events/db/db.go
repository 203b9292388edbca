package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"ms-booking/internal/apperrors"
	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateEvent inserts a new event with its initial seat inventory.
func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewInsert().Model(event).Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEvents returns events matching the optional case-insensitive
// substring filters, newest first.
func (d *DB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var events []models.Event
	q := d.Bun.NewSelect().Model(&events)
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Venue != "" {
		q = q.Where("LOWER(venue) LIKE ?", "%"+strings.ToLower(filter.Venue)+"%")
	}
	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// GetEvent fetches one event by ID, ErrNotFound if absent.
func (d *DB) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}
