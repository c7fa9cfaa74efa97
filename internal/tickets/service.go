package tickets

import (
	"context"
	"fmt"
	"time"

	"temba-ticketing/internal/errs"
	"temba-ticketing/internal/logger"
	"temba-ticketing/internal/models"
	"temba-ticketing/internal/qrproof"
)

type DBLayer interface {
	TicketByID(ctx context.Context, id string) (*models.Ticket, error)
	TicketDetailsByUser(ctx context.Context, userID string) ([]models.TicketDetail, error)
	UpdateScan(ctx context.Context, ticket *models.Ticket) error
}

type Publisher interface {
	PublishTicketScanned(ticket models.Ticket) error
}

// Service serves ticket reads and the scan path. Scanning is where the QR
// proof is actually enforced: token freshness is checked here, at entry,
// not when the ticket is displayed.
type Service struct {
	DB     DBLayer
	Codec  *qrproof.Codec
	Kafka  Publisher
	Logger *logger.Logger
}

func NewService(db DBLayer, codec *qrproof.Codec, log *logger.Logger) *Service {
	return &Service{DB: db, Codec: codec, Logger: log}
}

func (s *Service) TicketsByUser(ctx context.Context, userID string) ([]models.TicketDetail, error) {
	if userID == "" {
		return nil, errs.Validation("user ID is missing")
	}
	details, err := s.DB.TicketDetailsByUser(ctx, userID)
	if err != nil {
		return nil, errs.Persistence("failed to fetch tickets", err)
	}
	return details, nil
}

func (s *Service) Ticket(ctx context.Context, id string) (*models.Ticket, error) {
	if id == "" {
		return nil, errs.Validation("ticket ID is missing")
	}
	return s.DB.TicketByID(ctx, id)
}

// QRImage renders the stored proof token of a ticket as a PNG.
func (s *Service) QRImage(ctx context.Context, ticketID string) ([]byte, error) {
	ticket, err := s.Ticket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return qrproof.Image(ticket.QRCode)
}

// Scan verifies a presented QR token and, if the ticket is still VALID,
// marks it USED with the scan metadata. Any ticket in another state is
// rejected without modification.
func (s *Service) Scan(ctx context.Context, token, scannedBy, location string) (*models.Ticket, error) {
	claims, err := s.Codec.Validate(token)
	if err != nil {
		return nil, err
	}

	ticket, err := s.DB.TicketByID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}

	if ticket.QRCode != token {
		return nil, errs.Signature("QR code does not match the issued ticket")
	}

	switch ticket.Status {
	case models.TicketValid:
		// fall through to the transition
	case models.TicketUsed:
		return nil, errs.Conflict("ticket %s has already been used", ticket.ID)
	default:
		return nil, errs.Conflict("ticket %s is %s", ticket.ID, ticket.Status)
	}

	now := time.Now()
	ticket.Status = models.TicketUsed
	ticket.ScannedAt = now
	ticket.ScannedBy = scannedBy
	ticket.ScanLocation = location
	ticket.UpdatedAt = now

	if err := s.DB.UpdateScan(ctx, ticket); err != nil {
		return nil, errs.Persistence("failed to record scan", err)
	}
	s.Logger.Info("SCAN", fmt.Sprintf("ticket %s used at %s by %s", ticket.ID, location, scannedBy))

	if s.Kafka != nil {
		if err := s.Kafka.PublishTicketScanned(*ticket); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("ticket %s: publish failed: %v", ticket.ID, err))
		}
	}

	return ticket, nil
}
