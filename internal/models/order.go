package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
	OrderRefunded  = "refunded"
)

// Order records one purchase transaction: one event, one buyer, one or
// more ticket types. Immutable once written.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	EventID       string    `bun:"event_id" json:"event_id"`
	Total         float64   `bun:"total" json:"total"`
	Status        string    `bun:"status" json:"status"`
	PaymentMethod string    `bun:"payment_method" json:"payment_method"`
	CreatedAt     time.Time `bun:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`

	// TicketQuantities maps ticket type id -> units purchased. Stored as
	// JSONB in Postgres, plain JSON text under sqlite.
	TicketQuantities map[string]int `bun:"ticket_quantities,type:jsonb" json:"ticket_quantities"`
}

// OrderWithTickets is the read model pushed to live purchase feeds and
// returned from order detail endpoints.
type OrderWithTickets struct {
	Order   Order    `json:"order"`
	Tickets []Ticket `json:"tickets"`
}
