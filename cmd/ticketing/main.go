package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"temba-ticketing/internal/auth"
	"temba-ticketing/internal/config"
	"temba-ticketing/internal/database/migrations"
	"temba-ticketing/internal/events"
	eventdb "temba-ticketing/internal/events/db"
	"temba-ticketing/internal/events/event_api"
	"temba-ticketing/internal/kafka"
	"temba-ticketing/internal/logger"
	"temba-ticketing/internal/purchase"
	purchasedb "temba-ticketing/internal/purchase/db"
	"temba-ticketing/internal/purchase/purchase_api"
	rediscache "temba-ticketing/internal/purchase/redis"
	"temba-ticketing/internal/qrproof"
	"temba-ticketing/internal/sse"
	"temba-ticketing/internal/tickets"
	ticketdb "temba-ticketing/internal/tickets/db"
	"temba-ticketing/internal/tickets/ticket_api"
)

func main() {
	ctx := context.Background()

	// .env is optional; environment variables still apply without it.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger()
	log.Info("STARTUP", "Starting ticketing service...")

	// --- PostgreSQL Setup ---
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN()))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := sqldb.Ping(); err != nil {
		log.Fatal("STARTUP", "Failed to connect to Postgres: "+err.Error())
	}
	log.Info("DATABASE", "Connected to PostgreSQL")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Database.DevSchema {
		purchasedb.Migrate(bunDB)
	} else {
		runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
		if err := runner.RunMigrations(); err != nil {
			log.Fatal("DATABASE", "Migrations failed: "+err.Error())
		}
		log.Info("DATABASE", "Migrations applied")
	}

	// --- Redis Setup ---
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("STARTUP", "Failed to connect to Redis: "+err.Error())
	}
	log.Info("REDIS", "Connected to Redis at "+cfg.Redis.Addr)

	// --- Kafka Setup ---
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		if !cfg.Kafka.MockMode {
			topics := []string{cfg.Kafka.Topics.OrderCompleted, cfg.Kafka.Topics.TicketScanned}
			if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
				log.Warn("KAFKA", "Topic creation failed, continuing: "+err.Error())
			}
		}
		producer = kafka.NewProducer(cfg.Kafka, log)
		defer producer.Close()
	} else {
		log.Warn("KAFKA", "Kafka disabled, purchase events will not be published")
	}

	// --- Initialize Dependencies ---
	codec := qrproof.New(cfg.QR.Secret)
	feed := sse.NewPurchaseEventEmitter()

	purchaseService := purchase.NewService(&purchasedb.DB{Bun: bunDB}, codec, log)
	purchaseService.Cache = rediscache.NewCache(redisClient, cfg.Redis.TicketTypeTTL)
	purchaseService.Feed = feed
	if producer != nil {
		purchaseService.Kafka = producer
	}

	ticketService := tickets.NewService(&ticketdb.DB{Bun: bunDB}, codec, log)
	if producer != nil {
		ticketService.Kafka = producer
	}

	eventService := events.NewService(&eventdb.DB{Bun: bunDB}, log)

	purchaseHandler := purchase_api.NewHandler(purchaseService, feed, log)
	ticketHandler := ticket_api.NewHandler(ticketService, log)
	eventHandler := event_api.NewHandler(eventService, log)

	// --- Setup Router ---
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/events", eventHandler.ListEvents)
		r.Get("/events/search", eventHandler.SearchEvents)
		r.Get("/events/{eventId}", eventHandler.GetEvent)
		r.Get("/events/{eventId}/ticket-types", purchaseHandler.ListTicketTypes)
		r.Get("/events/{eventId}/purchases/stream", purchaseHandler.StreamPurchases)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Post("/purchases", purchaseHandler.CreatePurchase)
			r.Get("/orders/{orderId}", purchaseHandler.GetOrder)
			r.Get("/users/me/orders", purchaseHandler.ListMyOrders)

			r.Get("/users/me/tickets", ticketHandler.ListMyTickets)
			r.Get("/tickets/{ticketId}", ticketHandler.GetTicket)
			r.Get("/tickets/{ticketId}/qr.png", ticketHandler.GetTicketQR)
			r.Post("/tickets/scan", ticketHandler.ScanTicket)
		})
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("STARTUP", "Ticketing service running on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("STARTUP", "HTTP server error: "+err.Error())
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("SHUTDOWN", "Shutdown signal received, cleaning up...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("SHUTDOWN", "Server forced to shutdown: "+err.Error())
	}

	log.Info("SHUTDOWN", "Server exited gracefully")
}
