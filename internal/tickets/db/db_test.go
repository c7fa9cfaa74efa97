package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/models"
	"temba-ticketing/internal/tickets/db"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	for _, model := range []interface{}{
		(*models.Event)(nil),
		(*models.TicketType)(nil),
		(*models.Ticket)(nil),
	} {
		if _, err := bunDB.NewCreateTable().Model(model).Exec(context.Background()); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func seedFixtures(t *testing.T, bunDB *bun.DB) (models.Event, models.TicketType, models.Ticket) {
	ctx := context.Background()

	event := models.Event{
		ID:       "event-1",
		Title:    "Jazz Night",
		Date:     "2026-09-10",
		Time:     "20:00",
		Location: "Kinshasa Arena",
		Currency: "CDF",
		ImageURL: "https://img.example/jazz.jpg",
		Status:   models.EventPublished,
	}
	_, err := bunDB.NewInsert().Model(&event).Exec(ctx)
	assert.NoError(t, err)

	tt := models.TicketType{
		ID:      "tt-1",
		EventID: event.ID,
		Name:    "General",
		Price:   3000,
	}
	_, err = bunDB.NewInsert().Model(&tt).Exec(ctx)
	assert.NoError(t, err)

	ticket := models.Ticket{
		ID:           uuid.NewString(),
		OrderID:      "order-1",
		EventID:      event.ID,
		UserID:       "user-1",
		TicketTypeID: tt.ID,
		Status:       models.TicketValid,
		QRCode:       "token-1",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	_, err = bunDB.NewInsert().Model(&ticket).Exec(ctx)
	assert.NoError(t, err)

	return event, tt, ticket
}

func TestTicketByID(t *testing.T) {
	ticketDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	_, _, ticket := seedFixtures(t, bunDB)

	got, err := ticketDB.TicketByID(context.Background(), ticket.ID)
	assert.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
	assert.Equal(t, models.TicketValid, got.Status)

	_, err = ticketDB.TicketByID(context.Background(), "missing")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestTicketDetailsByUser(t *testing.T) {
	ticketDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	event, tt, ticket := seedFixtures(t, bunDB)

	details, err := ticketDB.TicketDetailsByUser(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, details, 1)

	d := details[0]
	assert.Equal(t, ticket.ID, d.ID)
	assert.Equal(t, tt.Name, d.TicketTypeName)
	assert.Equal(t, tt.Price, d.TicketTypePrice)
	assert.Equal(t, event.Title, d.EventTitle)
	assert.Equal(t, event.Location, d.EventLocation)
	assert.Equal(t, event.Currency, d.EventCurrency)

	none, err := ticketDB.TicketDetailsByUser(context.Background(), "user-2")
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateScan(t *testing.T) {
	ticketDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	_, _, ticket := seedFixtures(t, bunDB)

	ticket.Status = models.TicketUsed
	ticket.ScannedAt = time.Now()
	ticket.ScannedBy = "gate-3"
	ticket.ScanLocation = "North entrance"
	ticket.UpdatedAt = time.Now()

	err := ticketDB.UpdateScan(context.Background(), &ticket)
	assert.NoError(t, err)

	got, err := ticketDB.TicketByID(context.Background(), ticket.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.TicketUsed, got.Status)
	assert.Equal(t, "gate-3", got.ScannedBy)
	assert.Equal(t, "North entrance", got.ScanLocation)
	assert.False(t, got.ScannedAt.IsZero())
}
