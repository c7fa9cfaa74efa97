package purchase_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"temba-ticketing/internal/auth"
	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/logger"
	"temba-ticketing/internal/models"
	"temba-ticketing/internal/purchase"
	"temba-ticketing/internal/sse"
)

type Handler struct {
	Service *purchase.Service
	Feed    *sse.PurchaseEventEmitter
	Logger  *logger.Logger
}

func NewHandler(service *purchase.Service, feed *sse.PurchaseEventEmitter, log *logger.Logger) *Handler {
	return &Handler{Service: service, Feed: feed, Logger: log}
}

type purchaseBody struct {
	EventID       string                   `json:"event_id"`
	Selections    []models.TicketSelection `json:"selections"`
	PaymentMethod string                   `json:"payment_method"`
}

// CreatePurchase runs the purchase transaction for the authenticated user.
func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var body purchaseBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePurchase: invalid body: %v", err))
		http.Error(w, "Invalid purchase JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("CreatePurchase: user=%s event=%s selections=%d",
		userID, body.EventID, len(body.Selections)))

	result, err := h.Service.PurchaseTickets(r.Context(), purchase.PurchaseRequest{
		UserID:        userID,
		EventID:       body.EventID,
		Selections:    body.Selections,
		PaymentMethod: body.PaymentMethod,
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePurchase: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePurchase: failed to encode response: %v", err))
	}
}

// GetOrder returns an order along with the tickets it minted. Callers only
// see their own orders.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.Service.OrderWithTickets(r.Context(), orderID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	if order.Order.UserID != auth.UserID(r.Context()) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(order); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: failed to encode response: %v", err))
	}
}

// ListMyOrders returns the authenticated user's orders, newest first.
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Service.OrdersByUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListMyOrders: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListMyOrders: failed to encode response: %v", err))
	}
}

// ListTicketTypes returns an event's ticket types, cheapest first.
func (h *Handler) ListTicketTypes(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	types, err := h.Service.TicketTypes(r.Context(), eventID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListTicketTypes: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(types); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListTicketTypes: failed to encode response: %v", err))
	}
}

// StreamPurchases streams an event's completed purchases over SSE until
// the client disconnects.
func (h *Handler) StreamPurchases(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := h.Feed.Subscribe(r.Context(), eventID)
	h.Logger.Info("SSE", fmt.Sprintf("client subscribed to event %s", eventID))

	for {
		select {
		case <-r.Context().Done():
			h.Logger.Info("SSE", fmt.Sprintf("client left event %s", eventID))
			return
		case order, open := <-sub:
			if !open {
				return
			}
			payload, err := json.Marshal(order)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("failed to marshal purchase: %v", err))
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
