package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Ticket lifecycle statuses. A ticket is minted VALID and moves to USED on
// a successful scan; CANCELLED and EXPIRED are terminal.
const (
	TicketValid     = "VALID"
	TicketUsed      = "USED"
	TicketCancelled = "CANCELLED"
	TicketExpired   = "EXPIRED"
)

// Ticket is one admission unit, owned by the order that minted it. QRCode
// holds the signed proof token, not a rendered image.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID           string    `bun:"id,pk" json:"id"`
	OrderID      string    `bun:"order_id" json:"order_id"`
	EventID      string    `bun:"event_id" json:"event_id"`
	UserID       string    `bun:"user_id" json:"user_id"`
	TicketTypeID string    `bun:"ticket_type_id" json:"ticket_type_id"`
	Status       string    `bun:"status" json:"status"`
	QRCode       string    `bun:"qr_code" json:"qr_code"`
	CreatedAt    time.Time `bun:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at" json:"updated_at"`

	ScannedAt    time.Time `bun:"scanned_at,nullzero" json:"scanned_at,omitempty"`
	ScannedBy    string    `bun:"scanned_by,nullzero" json:"scanned_by,omitempty"`
	ScanLocation string    `bun:"scan_location,nullzero" json:"scan_location,omitempty"`
}

// TicketDetail joins a ticket with the display fields of its ticket type
// and event, mirroring the ticket listing screens.
type TicketDetail struct {
	Ticket

	TicketTypeName  string  `bun:"ticket_type_name" json:"ticket_type_name"`
	TicketTypePrice float64 `bun:"ticket_type_price" json:"ticket_type_price"`
	EventTitle      string  `bun:"event_title" json:"event_title"`
	EventDate       string  `bun:"event_date" json:"event_date"`
	EventTime       string  `bun:"event_time" json:"event_time"`
	EventLocation   string  `bun:"event_location" json:"event_location"`
	EventCurrency   string  `bun:"event_currency" json:"event_currency"`
	EventImage      string  `bun:"event_image" json:"event_image"`
}
