package purchase

import (
	"math"

	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/models"
)

// ServiceFeeRate is the fixed surcharge applied to every ticket subtotal.
const ServiceFeeRate = 0.05

// validatedSelection is a cart line resolved against a live ticket type.
type validatedSelection struct {
	TicketTypeID string
	Name         string
	Price        float64
	Quantity     int
}

// priceSelections resolves each selection against the event's ticket types
// and accumulates the subtotal. Duplicate lines for the same ticket type
// are summed into one before any check runs, so the per-order limit and
// the availability counters always see the cart's true total per type.
// Zero-quantity lines are dropped silently; an unresolved ticket type, a
// negative price, or a combined quantity over the type's per-order maximum
// fails the whole cart.
func priceSelections(types []models.TicketType, selections []models.TicketSelection) ([]validatedSelection, float64, error) {
	byID := make(map[string]models.TicketType, len(types))
	for _, tt := range types {
		byID[tt.ID] = tt
	}

	merged := make([]models.TicketSelection, 0, len(selections))
	position := make(map[string]int, len(selections))
	for _, sel := range selections {
		if sel.Quantity <= 0 {
			continue
		}
		if i, seen := position[sel.TicketTypeID]; seen {
			merged[i].Quantity += sel.Quantity
			continue
		}
		position[sel.TicketTypeID] = len(merged)
		merged = append(merged, sel)
	}

	var validated []validatedSelection
	var subtotal float64

	for _, sel := range merged {
		tt, ok := byID[sel.TicketTypeID]
		if !ok {
			return nil, 0, errs.Validation("ticket type not found: %s", sel.TicketTypeID)
		}
		if tt.Price < 0 {
			return nil, 0, errs.Validation("invalid price for ticket type: %s", tt.Name)
		}
		if tt.MaxPerOrder > 0 && sel.Quantity > tt.MaxPerOrder {
			return nil, 0, errs.Validation("quantity %d exceeds per-order limit of %d for ticket type: %s",
				sel.Quantity, tt.MaxPerOrder, tt.Name)
		}

		subtotal += tt.Price * float64(sel.Quantity)
		validated = append(validated, validatedSelection{
			TicketTypeID: sel.TicketTypeID,
			Name:         tt.Name,
			Price:        tt.Price,
			Quantity:     sel.Quantity,
		})
	}

	if len(validated) == 0 {
		return nil, 0, errs.Validation("no valid ticket selections")
	}
	if subtotal <= 0 {
		return nil, 0, errs.Validation("order total must be greater than zero")
	}

	return validated, subtotal, nil
}

// serviceFee rounds half-up to the nearest currency unit, matching the
// rounding the mobile client has always applied.
func serviceFee(subtotal float64) float64 {
	return math.Round(subtotal * ServiceFeeRate)
}
