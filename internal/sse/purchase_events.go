package sse

import (
	"context"
	"sync"

	"temba-ticketing/internal/models"
)

// PurchaseEventEmitter fans completed purchases out to SSE subscribers of
// the affected event. Emission never blocks a purchase: slow clients drop
// messages once their buffer fills.
type PurchaseEventEmitter struct {
	clients map[string][]chan models.OrderWithTickets
	mu      sync.RWMutex
}

func NewPurchaseEventEmitter() *PurchaseEventEmitter {
	return &PurchaseEventEmitter{
		clients: make(map[string][]chan models.OrderWithTickets),
	}
}

// Subscribe registers a client for an event's purchase feed. The channel
// is removed when ctx ends.
func (e *PurchaseEventEmitter) Subscribe(ctx context.Context, eventID string) chan models.OrderWithTickets {
	clientChan := make(chan models.OrderWithTickets, 10)

	e.mu.Lock()
	e.clients[eventID] = append(e.clients[eventID], clientChan)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(eventID, clientChan)
	}()

	return clientChan
}

// EmitPurchase pushes a completed purchase to every subscriber of its
// event.
func (e *PurchaseEventEmitter) EmitPurchase(eventID string, order models.OrderWithTickets) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, clientChan := range e.clients[eventID] {
		select {
		case clientChan <- order:
		default:
			// Client buffer full; drop rather than stall the purchase path.
		}
	}
}

func (e *PurchaseEventEmitter) remove(eventID string, target chan models.OrderWithTickets) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subscribers := e.clients[eventID]
	for i, clientChan := range subscribers {
		if clientChan == target {
			e.clients[eventID] = append(subscribers[:i], subscribers[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.clients[eventID]) == 0 {
		delete(e.clients, eventID)
	}
}

// SubscriberCount reports how many clients follow an event's feed.
func (e *PurchaseEventEmitter) SubscriberCount(eventID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[eventID])
}
