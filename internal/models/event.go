package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk" json:"id"`
	Title       string    `bun:"title" json:"title"`
	Description string    `bun:"description" json:"description"`
	Date        string    `bun:"date" json:"date"`
	Time        string    `bun:"time" json:"time"`
	Location    string    `bun:"location" json:"location"`
	ImageURL    string    `bun:"image_url" json:"image_url"`
	CategoryID  string    `bun:"category_id" json:"category_id"`
	OrganizerID string    `bun:"organizer_id" json:"organizer_id"`
	PriceMin    float64   `bun:"price_min" json:"price_min"`
	PriceMax    float64   `bun:"price_max" json:"price_max"`
	Currency    string    `bun:"currency" json:"currency"`
	Capacity    int       `bun:"capacity" json:"capacity"`
	Status      string    `bun:"status" json:"status"`
	Featured    bool      `bun:"featured" json:"featured"`
	CreatedAt   time.Time `bun:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at" json:"updated_at"`
}

// Event statuses.
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCancelled = "cancelled"
)
