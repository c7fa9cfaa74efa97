package event_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/events"
	"temba-ticketing/internal/logger"
	"temba-ticketing/internal/models"
)

type Handler struct {
	Service *events.Service
	Logger  *logger.Logger
}

func NewHandler(service *events.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// ListEvents serves the browse screen: all events, optionally narrowed to
// a category or to featured ones.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.Event
		err  error
	)

	switch {
	case r.URL.Query().Get("category") != "":
		list, err = h.Service.EventsByCategory(r.Context(), r.URL.Query().Get("category"))
	case r.URL.Query().Get("featured") == "true":
		list, err = h.Service.FeaturedEvents(r.Context())
	default:
		list, err = h.Service.Events(r.Context())
	}

	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: failed to encode response: %v", err))
	}
}

func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SearchEvents: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		h.Logger.Error("API", fmt.Sprintf("SearchEvents: failed to encode response: %v", err))
	}
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	event, err := h.Service.Event(r.Context(), eventID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: %v", err))
		http.Error(w, errs.Format(err), errs.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(event); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: failed to encode response: %v", err))
	}
}
