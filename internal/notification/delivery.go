package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/port"
)

var ErrRejectedByMailServer = errors.New("mail server rejected the message")

// Delivery hands an outbound notification to its transport.
type Delivery interface {
	Mode() domain.DeliveryMode
	Deliver(ctx context.Context, n domain.OutboundNotification) error
}

// SyncDelivery sends the email inline and waits for the mail server.
type SyncDelivery struct {
	sender port.EmailSender
}

func NewSyncDelivery(sender port.EmailSender) (SyncDelivery, error) {
	if sender == nil {
		return SyncDelivery{}, fmt.Errorf("sender is nil")
	}
	return SyncDelivery{sender: sender}, nil
}

func (d SyncDelivery) Mode() domain.DeliveryMode {
	return domain.DeliverySync
}

func (d SyncDelivery) Deliver(ctx context.Context, n domain.OutboundNotification) error {
	ok, err := d.sender.Send(ctx, n)
	if err != nil {
		return fmt.Errorf("sender.Send: %w", err)
	}
	if !ok {
		return ErrRejectedByMailServer
	}
	return nil
}

// AsyncDelivery enqueues the notification and returns once the producer accepted it.
type AsyncDelivery struct {
	producer port.QueueProducer
}

func NewAsyncDelivery(producer port.QueueProducer) (AsyncDelivery, error) {
	if producer == nil {
		return AsyncDelivery{}, fmt.Errorf("producer is nil")
	}
	return AsyncDelivery{producer: producer}, nil
}

func (d AsyncDelivery) Mode() domain.DeliveryMode {
	return domain.DeliveryAsync
}

func (d AsyncDelivery) Deliver(ctx context.Context, n domain.OutboundNotification) error {
	if err := d.producer.Enqueue(ctx, n); err != nil {
		return fmt.Errorf("producer.Enqueue: %w", err)
	}
	return nil
}
