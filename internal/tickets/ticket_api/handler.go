package ticket_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"temba-ticketing/internal/auth"
	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/logger"
	"temba-ticketing/internal/tickets"
)

type Handler struct {
	Service *tickets.Service
	Logger  *logger.Logger
}

func NewHandler(service *tickets.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// ListMyTickets returns the authenticated user's tickets with their event
// and ticket-type details.
func (h *Handler) ListMyTickets(w http.ResponseWriter, r *http.Request) {
	details, err := h.Service.TicketsByUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListMyTickets: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(details); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListMyTickets: failed to encode response: %v", err))
	}
}

// GetTicket returns one of the caller's tickets.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketId")

	ticket, err := h.Service.Ticket(r.Context(), ticketID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicket: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	if ticket.UserID != auth.UserID(r.Context()) {
		http.Error(w, "Ticket not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ticket); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicket: failed to encode response: %v", err))
	}
}

// GetTicketQR renders the ticket's proof token as a PNG QR code.
func (h *Handler) GetTicketQR(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketId")

	ticket, err := h.Service.Ticket(r.Context(), ticketID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicketQR: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}
	if ticket.UserID != auth.UserID(r.Context()) {
		http.Error(w, "Ticket not found", http.StatusNotFound)
		return
	}

	png, err := h.Service.QRImage(r.Context(), ticketID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicketQR: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicketQR: failed to write image: %v", err))
	}
}

type scanBody struct {
	QRData       string `json:"qr_data"`
	ScannedBy    string `json:"scanned_by"`
	ScanLocation string `json:"scan_location"`
}

// ScanTicket verifies a presented QR token and marks the ticket USED.
func (h *Handler) ScanTicket(w http.ResponseWriter, r *http.Request) {
	var body scanBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid scan JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	ticket, err := h.Service.Scan(r.Context(), body.QRData, body.ScannedBy, body.ScanLocation)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("ScanTicket: rejected: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ticket); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ScanTicket: failed to encode response: %v", err))
	}
}
