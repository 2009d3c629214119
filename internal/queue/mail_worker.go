package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/port"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type WorkerConfig struct {
	Brokers []string
	Topic   string
	GroupID string

	// SendAttempts bounds retries of a failing send before the message is dropped.
	SendAttempts uint64
}

// MailWorker drains the notification topic and sends each message through the EmailSender.
type MailWorker struct {
	reader       messageReader
	sender       port.EmailSender
	sendAttempts uint64
	retryBase    time.Duration
}

func NewMailWorker(cfg WorkerConfig, sender port.EmailSender) (*MailWorker, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are empty")
	}
	if cfg.Topic == "" || cfg.GroupID == "" {
		return nil, fmt.Errorf("topic and group are required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MaxBytes: 10e6,
	})

	return newMailWorker(reader, sender, cfg.SendAttempts)
}

func newMailWorker(reader messageReader, sender port.EmailSender, attempts uint64) (*MailWorker, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender is nil")
	}
	if attempts == 0 {
		attempts = 3
	}

	return &MailWorker{
		reader:       reader,
		sender:       sender,
		sendAttempts: attempts,
		retryBase:    200 * time.Millisecond,
	}, nil
}

// Run blocks until ctx is canceled or the reader fails for good.
func (w *MailWorker) Run(ctx context.Context) error {
	for {
		m, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("reader.FetchMessage: %w", err)
		}

		w.handle(ctx, m)

		if err := w.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("commit failed",
				"method", "MailWorker.Run",
				"offset", m.Offset,
				"error", err)
		}
	}
}

func (w *MailWorker) handle(ctx context.Context, m kafka.Message) {
	var n domain.OutboundNotification
	if err := json.Unmarshal(m.Value, &n); err != nil {
		slog.Error("dropping malformed message",
			"method", "MailWorker.handle",
			"partition", m.Partition,
			"offset", m.Offset,
			"error", err)
		return
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.retryBase

	var accepted bool
	err := backoff.Retry(func() error {
		ok, err := w.sender.Send(ctx, n)
		if err != nil {
			return err
		}
		accepted = ok
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(policy, w.sendAttempts-1), ctx))
	if err != nil {
		slog.Error("notification send failed",
			"method", "MailWorker.handle",
			"message_id", n.MessageID,
			"invoice_number", n.InvoiceNumber,
			"error", err)
		return
	}

	if !accepted {
		slog.Warn("notification rejected by mail server",
			"method", "MailWorker.handle",
			"message_id", n.MessageID,
			"invoice_number", n.InvoiceNumber)
		return
	}

	slog.Info("notification sent",
		"method", "MailWorker.handle",
		"message_id", n.MessageID,
		"invoice_number", n.InvoiceNumber,
		"status", n.StatusName)
}

func (w *MailWorker) Close() error {
	return w.reader.Close()
}
