package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TicketType is a priced category of admission to an event ("VIP",
// "General", ...). Prices are stored in the event's minor currency unit.
type TicketType struct {
	bun.BaseModel `bun:"table:ticket_types"`

	ID                string    `bun:"id,pk" json:"id"`
	EventID           string    `bun:"event_id" json:"event_id"`
	Name              string    `bun:"name" json:"name"`
	Description       string    `bun:"description" json:"description"`
	Price             float64   `bun:"price" json:"price"`
	QuantityAvailable int       `bun:"quantity_available" json:"quantity_available"`
	QuantitySold      int       `bun:"quantity_sold" json:"quantity_sold"`
	MaxPerOrder       int       `bun:"max_per_order" json:"max_per_order"`
	CreatedAt         time.Time `bun:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at" json:"updated_at"`
}

// TicketSelection is one cart line during purchase: a ticket type and how
// many units of it the buyer wants.
type TicketSelection struct {
	TicketTypeID string `json:"ticketTypeId"`
	Quantity     int    `json:"quantity"`
}
