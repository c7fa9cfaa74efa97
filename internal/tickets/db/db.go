package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) TicketByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("ticket %s not found", id)
	}
	if err != nil {
		return nil, errs.Persistence("failed to fetch ticket", err)
	}
	return &ticket, nil
}

// TicketDetailsByUser joins each of a user's tickets with the display
// fields of its ticket type and event, newest first.
func (d *DB) TicketDetailsByUser(ctx context.Context, userID string) ([]models.TicketDetail, error) {
	var details []models.TicketDetail
	err := d.Bun.NewSelect().
		Model(&details).
		ModelTableExpr("tickets AS t").
		ColumnExpr("t.*").
		ColumnExpr("tt.name AS ticket_type_name").
		ColumnExpr("tt.price AS ticket_type_price").
		ColumnExpr("e.title AS event_title").
		ColumnExpr("e.date AS event_date").
		ColumnExpr("e.time AS event_time").
		ColumnExpr("e.location AS event_location").
		ColumnExpr("e.currency AS event_currency").
		ColumnExpr("e.image_url AS event_image").
		Join("JOIN ticket_types AS tt ON tt.id = t.ticket_type_id").
		Join("JOIN events AS e ON e.id = t.event_id").
		Where("t.user_id = ?", userID).
		OrderExpr("t.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return details, nil
}

// UpdateScan persists a scan transition: status plus the scan metadata.
func (d *DB) UpdateScan(ctx context.Context, ticket *models.Ticket) error {
	_, err := d.Bun.NewUpdate().
		Model(ticket).
		Column("status", "scanned_at", "scanned_by", "scan_location", "updated_at").
		Where("id = ?", ticket.ID).
		Exec(ctx)
	return err
}
