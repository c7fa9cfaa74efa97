package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"temba-ticketing/internal/config"
	"temba-ticketing/internal/logger"
	"temba-ticketing/internal/models"
)

// OrderCompletedEvent is the message streamed after a purchase commits.
type OrderCompletedEvent struct {
	Order     models.Order `json:"order"`
	TicketIDs []string     `json:"ticket_ids"`
}

// TicketScannedEvent is streamed when a ticket transitions to USED.
type TicketScannedEvent struct {
	Ticket models.Ticket `json:"ticket"`
}

// Producer streams purchase-path events. In mock mode messages are logged
// and dropped, which keeps local development broker-free.
type Producer struct {
	writer   *kafka.Writer
	topics   config.TopicConfig
	mockMode bool
	logger   *logger.Logger
}

func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	p := &Producer{
		topics:   cfg.Topics,
		mockMode: cfg.MockMode,
		logger:   log,
	}
	if !cfg.MockMode {
		p.writer = &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Balancer: &kafka.LeastBytes{},
		}
	}
	return p
}

func (p *Producer) publish(topic, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if p.mockMode {
		p.logger.LogKafka("MOCK", topic, string(value))
		return nil
	}

	p.logger.LogKafka("PUBLISH", topic, fmt.Sprintf("key=%s bytes=%d", key, len(value)))
	return p.writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

func (p *Producer) PublishOrderCompleted(order models.Order, ticketIDs []string) error {
	return p.publish(p.topics.OrderCompleted, order.ID, OrderCompletedEvent{
		Order:     order,
		TicketIDs: ticketIDs,
	})
}

func (p *Producer) PublishTicketScanned(ticket models.Ticket) error {
	return p.publish(p.topics.TicketScanned, ticket.ID, TicketScannedEvent{Ticket: ticket})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
