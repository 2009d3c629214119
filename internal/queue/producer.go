package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/segmentio/kafka-go"
)

const headerMessageID = "message_id"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ProducerConfig struct {
	Brokers []string
	Topic   string
	// Async makes Enqueue return after the local buffer accepted the message.
	Async bool
}

// Producer publishes outbound notifications for the mail worker.
type Producer struct {
	writer messageWriter
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are empty")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is empty")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		Async:                  cfg.Async,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Error("kafka write failed",
					"method", "Producer.Completion",
					"topic", cfg.Topic,
					"messages", len(messages),
					"error", err)
			}
		},
	}

	return newProducer(w), nil
}

func newProducer(w messageWriter) *Producer {
	return &Producer{writer: w}
}

// Enqueue keys messages by invoice number so one order's notifications stay ordered.
func (p *Producer) Enqueue(ctx context.Context, n domain.OutboundNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(n.InvoiceNumber),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerMessageID, Value: []byte(n.MessageID.String())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
