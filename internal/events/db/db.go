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

// Events lists all events, soonest first.
func (d *DB) Events(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Order("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (d *DB) FeaturedEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("featured = ?", true).
		Order("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (d *DB) EventsByCategory(ctx context.Context, categoryID string) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("category_id = ?", categoryID).
		Order("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// SearchEvents matches the query against title and location,
// case-insensitively. lower(...) LIKE keeps the query portable across
// Postgres and the sqlite test driver.
func (d *DB) SearchEvents(ctx context.Context, query string) ([]models.Event, error) {
	pattern := "%" + query + "%"

	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("lower(title) LIKE lower(?)", pattern).
				WhereOr("lower(location) LIKE lower(?)", pattern)
		}).
		Order("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (d *DB) EventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("event %s not found", id)
	}
	if err != nil {
		return nil, errs.Persistence("failed to fetch event", err)
	}
	return &event, nil
}
