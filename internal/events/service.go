package events

import (
	"context"
	"strings"

	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/logger"
	"temba-ticketing/internal/models"
)

type DBLayer interface {
	Events(ctx context.Context) ([]models.Event, error)
	FeaturedEvents(ctx context.Context) ([]models.Event, error)
	EventsByCategory(ctx context.Context, categoryID string) ([]models.Event, error)
	SearchEvents(ctx context.Context, query string) ([]models.Event, error)
	EventByID(ctx context.Context, id string) (*models.Event, error)
}

// Service is the read-only event catalog behind the browse and search
// screens.
type Service struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

func (s *Service) Events(ctx context.Context) ([]models.Event, error) {
	events, err := s.DB.Events(ctx)
	if err != nil {
		return nil, errs.Persistence("failed to fetch events", err)
	}
	return events, nil
}

func (s *Service) FeaturedEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.DB.FeaturedEvents(ctx)
	if err != nil {
		return nil, errs.Persistence("failed to fetch featured events", err)
	}
	return events, nil
}

func (s *Service) EventsByCategory(ctx context.Context, categoryID string) ([]models.Event, error) {
	if categoryID == "" {
		return nil, errs.Validation("category is missing")
	}
	events, err := s.DB.EventsByCategory(ctx, categoryID)
	if err != nil {
		return nil, errs.Persistence("failed to fetch events by category", err)
	}
	return events, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]models.Event, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Validation("search query is missing")
	}
	events, err := s.DB.SearchEvents(ctx, query)
	if err != nil {
		return nil, errs.Persistence("failed to search events", err)
	}
	return events, nil
}

func (s *Service) Event(ctx context.Context, id string) (*models.Event, error) {
	if id == "" {
		return nil, errs.Validation("event ID is missing")
	}
	return s.DB.EventByID(ctx, id)
}
