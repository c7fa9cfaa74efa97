package db

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"temba-ticketing/internal/models"
)

// Migrate creates the purchase-path tables if they are missing. Dev-mode
// convenience only; real schema changes go through the SQL migrations.
func Migrate(db *bun.DB) {
	ctx := context.Background()

	tables := []interface{}{
		(*models.Event)(nil),
		(*models.TicketType)(nil),
		(*models.Order)(nil),
		(*models.Ticket)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			log.Fatalf("create table failed: %v", err)
		}
	}

	log.Println("purchase tables ready")
}
