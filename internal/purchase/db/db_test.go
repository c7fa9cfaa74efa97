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
	"temba-ticketing/internal/purchase/db"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	for _, model := range []interface{}{
		(*models.TicketType)(nil),
		(*models.Order)(nil),
		(*models.Ticket)(nil),
	} {
		if _, err := bunDB.NewCreateTable().Model(model).Exec(context.Background()); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func seedTicketType(t *testing.T, bunDB *bun.DB, eventID string, price float64, available int) models.TicketType {
	tt := models.TicketType{
		ID:                uuid.NewString(),
		EventID:           eventID,
		Name:              "General",
		Price:             price,
		QuantityAvailable: available,
		MaxPerOrder:       10,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	_, err := bunDB.NewInsert().Model(&tt).Exec(context.Background())
	assert.NoError(t, err)
	return tt
}

func TestTicketTypesByEventOrderedByPrice(t *testing.T) {
	purchaseDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	seedTicketType(t, bunDB, "event-1", 5000, 100)
	seedTicketType(t, bunDB, "event-1", 1000, 100)
	seedTicketType(t, bunDB, "event-1", 3000, 100)
	seedTicketType(t, bunDB, "event-2", 500, 100)

	types, err := purchaseDB.TicketTypesByEvent(context.Background(), "event-1")
	assert.NoError(t, err)
	assert.Len(t, types, 3)
	assert.Equal(t, 1000.0, types[0].Price)
	assert.Equal(t, 3000.0, types[1].Price)
	assert.Equal(t, 5000.0, types[2].Price)
}

func TestCreateOrderWithTickets(t *testing.T) {
	purchaseDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	tt := seedTicketType(t, bunDB, "event-1", 5000, 10)

	order := models.Order{
		ID:               uuid.NewString(),
		UserID:           "user-1",
		EventID:          "event-1",
		Total:            15750,
		Status:           models.OrderCompleted,
		PaymentMethod:    "card",
		TicketQuantities: map[string]int{tt.ID: 3},
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	tickets := make([]models.Ticket, 3)
	for i := range tickets {
		tickets[i] = models.Ticket{
			ID:           uuid.NewString(),
			OrderID:      order.ID,
			EventID:      "event-1",
			UserID:       "user-1",
			TicketTypeID: tt.ID,
			Status:       models.TicketValid,
			QRCode:       "token-" + uuid.NewString(),
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
	}

	err := purchaseDB.CreateOrderWithTickets(context.Background(), &order, tickets)
	assert.NoError(t, err)

	stored, err := purchaseDB.OrderByID(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, stored.Status)
	assert.Equal(t, map[string]int{tt.ID: 3}, stored.TicketQuantities)

	withTickets, err := purchaseDB.OrderWithTickets(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Len(t, withTickets.Tickets, 3)

	var updated models.TicketType
	err = bunDB.NewSelect().Model(&updated).Where("id = ?", tt.ID).Scan(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, updated.QuantitySold)
}

func TestCreateOrderWithTicketsOversell(t *testing.T) {
	purchaseDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	tt := seedTicketType(t, bunDB, "event-1", 5000, 2)

	order := models.Order{
		ID:               uuid.NewString(),
		UserID:           "user-1",
		EventID:          "event-1",
		Total:            15750,
		Status:           models.OrderCompleted,
		PaymentMethod:    "card",
		TicketQuantities: map[string]int{tt.ID: 3},
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	tickets := []models.Ticket{{
		ID:           uuid.NewString(),
		OrderID:      order.ID,
		EventID:      "event-1",
		UserID:       "user-1",
		TicketTypeID: tt.ID,
		Status:       models.TicketValid,
		QRCode:       "token",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}}

	err := purchaseDB.CreateOrderWithTickets(context.Background(), &order, tickets)
	assert.True(t, errs.IsKind(err, errs.KindConflict))

	// Nothing landed: no order, no tickets, counter untouched.
	_, err = purchaseDB.OrderByID(context.Background(), order.ID)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))

	count, err := bunDB.NewSelect().Model((*models.Ticket)(nil)).Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	var updated models.TicketType
	err = bunDB.NewSelect().Model(&updated).Where("id = ?", tt.ID).Scan(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, updated.QuantitySold)
}

func TestCreateOrderRollsBackPartialGuard(t *testing.T) {
	purchaseDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	plenty := seedTicketType(t, bunDB, "event-1", 1000, 100)
	scarce := seedTicketType(t, bunDB, "event-1", 9000, 1)

	order := models.Order{
		ID:            uuid.NewString(),
		UserID:        "user-1",
		EventID:       "event-1",
		Total:         0,
		Status:        models.OrderCompleted,
		PaymentMethod: "card",
		TicketQuantities: map[string]int{
			plenty.ID: 2,
			scarce.ID: 2,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := purchaseDB.CreateOrderWithTickets(context.Background(), &order, []models.Ticket{{
		ID:      uuid.NewString(),
		OrderID: order.ID,
		Status:  models.TicketValid,
	}})
	assert.True(t, errs.IsKind(err, errs.KindConflict))

	// The passing guard's increment must not survive the rollback.
	var updated models.TicketType
	err = bunDB.NewSelect().Model(&updated).Where("id = ?", plenty.ID).Scan(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, updated.QuantitySold)
}

func TestOrdersByUserMostRecentFirst(t *testing.T) {
	purchaseDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	first := models.Order{
		ID:        uuid.NewString(),
		UserID:    "user-1",
		EventID:   "event-1",
		Status:    models.OrderCompleted,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	second := models.Order{
		ID:        uuid.NewString(),
		UserID:    "user-1",
		EventID:   "event-2",
		Status:    models.OrderCompleted,
		CreatedAt: time.Now(),
	}
	other := models.Order{
		ID:        uuid.NewString(),
		UserID:    "user-2",
		EventID:   "event-1",
		Status:    models.OrderCompleted,
		CreatedAt: time.Now(),
	}
	for _, o := range []*models.Order{&first, &second, &other} {
		_, err := bunDB.NewInsert().Model(o).Exec(context.Background())
		assert.NoError(t, err)
	}

	orders, err := purchaseDB.OrdersByUser(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}
