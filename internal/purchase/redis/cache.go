package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"temba-ticketing/internal/models"
)

const typeKeyPrefix = "ticket_types:"

// Cache is a read-through cache of an event's ticket-type listing. Entries
// expire on their own and are dropped eagerly after every purchase, since
// a purchase moves the sold counters.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{Client: client, TTL: ttl}
}

// TicketTypesByEvent returns the cached listing, or (nil, nil) on a miss.
func (c *Cache) TicketTypesByEvent(ctx context.Context, eventID string) ([]models.TicketType, error) {
	raw, err := c.Client.Get(ctx, typeKeyPrefix+eventID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var types []models.TicketType
	if err := json.Unmarshal([]byte(raw), &types); err != nil {
		// A corrupt entry is a miss; it will be rewritten on the next read.
		return nil, nil
	}
	return types, nil
}

func (c *Cache) StoreTicketTypes(ctx context.Context, eventID string, types []models.TicketType) error {
	raw, err := json.Marshal(types)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, typeKeyPrefix+eventID, raw, c.TTL).Err()
}

func (c *Cache) Invalidate(ctx context.Context, eventID string) error {
	return c.Client.Del(ctx, typeKeyPrefix+eventID).Err()
}
