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

// TicketTypesByEvent fetches an event's ticket types, cheapest first.
func (d *DB) TicketTypesByEvent(ctx context.Context, eventID string) ([]models.TicketType, error) {
	var types []models.TicketType
	err := d.Bun.NewSelect().
		Model(&types).
		Where("event_id = ?", eventID).
		Order("price ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return types, nil
}

// CreateOrderWithTickets persists the order, its tickets and the
// availability counters in one transaction. For every ticket type it
// increments quantity_sold behind a conditional guard; a guard miss means
// the requested units exceed what is left and rolls everything back.
func (d *DB) CreateOrderWithTickets(ctx context.Context, order *models.Order, tickets []models.Ticket) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for typeID, qty := range order.TicketQuantities {
			res, err := tx.NewUpdate().
				Model((*models.TicketType)(nil)).
				Set("quantity_sold = quantity_sold + ?", qty).
				Where("id = ?", typeID).
				Where("quantity_sold + ? <= quantity_available", qty).
				Exec(ctx)
			if err != nil {
				return err
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return errs.Conflict("not enough tickets available for ticket type %s", typeID)
			}
		}

		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(&tickets).Exec(ctx); err != nil {
			return err
		}

		return nil
	})
}

func (d *DB) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("order %s not found", id)
	}
	if err != nil {
		return nil, errs.Persistence("failed to fetch order", err)
	}
	return &order, nil
}

// OrdersByUser returns a user's orders, most recent first.
func (d *DB) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderWithTickets loads an order together with the tickets it minted.
func (d *DB) OrderWithTickets(ctx context.Context, id string) (*models.OrderWithTickets, error) {
	order, err := d.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var tickets []models.Ticket
	err = d.Bun.NewSelect().
		Model(&tickets).
		Where("order_id = ?", id).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errs.Persistence("failed to fetch tickets for order", err)
	}

	return &models.OrderWithTickets{Order: *order, Tickets: tickets}, nil
}
