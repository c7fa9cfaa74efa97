package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/logger"
	"temba-ticketing/internal/models"
	"temba-ticketing/internal/qrproof"
)

type DBLayer interface {
	TicketTypesByEvent(ctx context.Context, eventID string) ([]models.TicketType, error)
	CreateOrderWithTickets(ctx context.Context, order *models.Order, tickets []models.Ticket) error
	OrderByID(ctx context.Context, id string) (*models.Order, error)
	OrderWithTickets(ctx context.Context, id string) (*models.OrderWithTickets, error)
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// TypeCache fronts the ticket-type listing of an event. A (nil, nil)
// return is a miss.
type TypeCache interface {
	TicketTypesByEvent(ctx context.Context, eventID string) ([]models.TicketType, error)
	StoreTicketTypes(ctx context.Context, eventID string, types []models.TicketType) error
	Invalidate(ctx context.Context, eventID string) error
}

type Publisher interface {
	PublishOrderCompleted(order models.Order, ticketIDs []string) error
}

// FeedEmitter pushes completed purchases to live SSE subscribers.
type FeedEmitter interface {
	EmitPurchase(eventID string, order models.OrderWithTickets)
}

// Service turns a cart of ticket selections into a durable order plus one
// ticket per unit. The order insert, ticket bulk insert and availability
// guard run in a single store transaction, so a purchase either fully
// lands or leaves nothing behind.
type Service struct {
	DB     DBLayer
	Cache  TypeCache
	Kafka  Publisher
	Feed   FeedEmitter
	Codec  *qrproof.Codec
	Logger *logger.Logger
}

func NewService(db DBLayer, codec *qrproof.Codec, log *logger.Logger) *Service {
	return &Service{DB: db, Codec: codec, Logger: log}
}

type PurchaseRequest struct {
	UserID        string                   `json:"user_id"`
	EventID       string                   `json:"event_id"`
	Selections    []models.TicketSelection `json:"selections"`
	PaymentMethod string                   `json:"payment_method"`
}

type PurchaseResult struct {
	Success   bool     `json:"success"`
	OrderID   string   `json:"order_id"`
	TicketIDs []string `json:"ticket_ids"`
}

// PurchaseTickets validates the cart against the event's live ticket
// types, prices it, persists the order and mints one QR-carrying ticket
// per unit. Payment is recorded as a label only; no gateway is involved.
func (s *Service) PurchaseTickets(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	if req.UserID == "" {
		return nil, errs.Validation("user ID is missing")
	}
	if req.EventID == "" {
		return nil, errs.Validation("event ID is missing")
	}
	if len(req.Selections) == 0 {
		return nil, errs.Validation("no tickets selected")
	}
	if req.PaymentMethod == "" {
		return nil, errs.Validation("payment method is missing")
	}

	types, err := s.ticketTypes(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, errs.NotFound("no ticket types found for event %s", req.EventID)
	}

	validated, subtotal, err := priceSelections(types, req.Selections)
	if err != nil {
		return nil, err
	}

	fee := serviceFee(subtotal)
	total := subtotal + fee
	s.Logger.LogPurchase("PRICE", req.EventID,
		fmt.Sprintf("subtotal=%.2f fee=%.2f total=%.2f", subtotal, fee, total))

	quantities := make(map[string]int, len(validated))
	for _, sel := range validated {
		quantities[sel.TicketTypeID] = sel.Quantity
	}

	now := time.Now()
	order := models.Order{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		EventID:          req.EventID,
		Total:            total,
		Status:           models.OrderCompleted,
		PaymentMethod:    req.PaymentMethod,
		TicketQuantities: quantities,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	tickets, err := s.mintTickets(order, validated, now)
	if err != nil {
		return nil, err
	}

	if err := s.DB.CreateOrderWithTickets(ctx, &order, tickets); err != nil {
		var typed *errs.Error
		if errors.As(err, &typed) {
			return nil, err
		}
		return nil, errs.Persistence("failed to create order", err)
	}
	s.Logger.LogPurchase("CREATE", order.ID,
		fmt.Sprintf("%d tickets for user %s", len(tickets), req.UserID))

	ticketIDs := make([]string, len(tickets))
	for i, t := range tickets {
		ticketIDs[i] = t.ID
	}

	// Post-commit side effects are best effort; the purchase has already
	// succeeded by this point.
	s.afterPurchase(ctx, order, tickets, ticketIDs)

	return &PurchaseResult{Success: true, OrderID: order.ID, TicketIDs: ticketIDs}, nil
}

// mintTickets stages one ticket row per purchased unit, each carrying a
// freshly signed QR token.
func (s *Service) mintTickets(order models.Order, validated []validatedSelection, now time.Time) ([]models.Ticket, error) {
	var tickets []models.Ticket
	for _, sel := range validated {
		for i := 0; i < sel.Quantity; i++ {
			ticketID := uuid.NewString()
			token, err := s.Codec.Generate(ticketID)
			if err != nil {
				return nil, err
			}
			tickets = append(tickets, models.Ticket{
				ID:           ticketID,
				OrderID:      order.ID,
				EventID:      order.EventID,
				UserID:       order.UserID,
				TicketTypeID: sel.TicketTypeID,
				Status:       models.TicketValid,
				QRCode:       token,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
	}
	if len(tickets) == 0 {
		return nil, errs.Validation("no tickets to create")
	}
	return tickets, nil
}

func (s *Service) afterPurchase(ctx context.Context, order models.Order, tickets []models.Ticket, ticketIDs []string) {
	if s.Kafka != nil {
		if err := s.Kafka.PublishOrderCompleted(order, ticketIDs); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("order %s: publish failed: %v", order.ID, err))
		}
	}
	if s.Feed != nil {
		s.Feed.EmitPurchase(order.EventID, models.OrderWithTickets{Order: order, Tickets: tickets})
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, order.EventID); err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("event %s: invalidate failed: %v", order.EventID, err))
		}
	}
}

// ticketTypes reads through the cache when one is wired.
func (s *Service) ticketTypes(ctx context.Context, eventID string) ([]models.TicketType, error) {
	if s.Cache != nil {
		cached, err := s.Cache.TicketTypesByEvent(ctx, eventID)
		if err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("event %s: read failed: %v", eventID, err))
		} else if cached != nil {
			return cached, nil
		}
	}

	types, err := s.DB.TicketTypesByEvent(ctx, eventID)
	if err != nil {
		return nil, errs.Persistence("failed to fetch ticket types", err)
	}

	if s.Cache != nil && len(types) > 0 {
		if err := s.Cache.StoreTicketTypes(ctx, eventID, types); err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("event %s: store failed: %v", eventID, err))
		}
	}
	return types, nil
}

// TicketTypes lists an event's ticket types, cheapest first.
func (s *Service) TicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error) {
	if eventID == "" {
		return nil, errs.Validation("event ID is missing")
	}
	types, err := s.ticketTypes(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, errs.NotFound("no ticket types found for event %s", eventID)
	}
	return types, nil
}

func (s *Service) Order(ctx context.Context, id string) (*models.Order, error) {
	if id == "" {
		return nil, errs.Validation("order ID is missing")
	}
	return s.DB.OrderByID(ctx, id)
}

func (s *Service) OrderWithTickets(ctx context.Context, id string) (*models.OrderWithTickets, error) {
	if id == "" {
		return nil, errs.Validation("order ID is missing")
	}
	return s.DB.OrderWithTickets(ctx, id)
}

func (s *Service) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, errs.Validation("user ID is missing")
	}
	orders, err := s.DB.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, errs.Persistence("failed to fetch orders", err)
	}
	return orders, nil
}
