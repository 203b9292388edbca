package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-booking/internal/models"
)

const keyPrefix = "events:list:"

// EventCache is a read-side cache for the event catalog. Entries expire on
// their own TTL and are dropped eagerly whenever the inventory changes, so
// a stale availability figure can never outlive a write for long.
type EventCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewEventCache(client *redis.Client, ttl time.Duration) *EventCache {
	return &EventCache{Client: client, TTL: ttl}
}

func listKey(filter models.EventFilter) string {
	return fmt.Sprintf("%sname=%s:venue=%s", keyPrefix, filter.Name, filter.Venue)
}

// GetList returns the cached result for a filter, or ok=false on a miss.
// Cache errors are reported but callers treat them as misses.
func (c *EventCache) GetList(ctx context.Context, filter models.EventFilter) ([]models.Event, bool, error) {
	if c == nil || c.Client == nil {
		return nil, false, nil
	}

	raw, err := c.Client.Get(ctx, listKey(filter)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var events []models.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return events, true, nil
}

// SetList stores a filter's result under the cache TTL.
func (c *EventCache) SetList(ctx context.Context, filter models.EventFilter, events []models.Event) error {
	if c == nil || c.Client == nil {
		return nil
	}

	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.Client.Set(ctx, listKey(filter), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops every cached listing. Called after event creation and
// after each committed reservation.
func (c *EventCache) Invalidate(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}

	keys, err := c.Client.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}
