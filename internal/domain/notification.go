package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID            uuid.UUID
	CustomerID    int64
	OrderID       int64
	Title         string
	Message       string
	Read          bool
	StatusName    string
	InvoiceNumber InvoiceNumber

	CreatedAt time.Time
}

func NewStatusNotification(order Order) Notification {
	status := order.Status.String()

	return Notification{
		ID:            uuid.New(),
		CustomerID:    order.CustomerID,
		OrderID:       order.ID,
		Title:         fmt.Sprintf("Order %s: %s", order.InvoiceNumber, status),
		Message:       fmt.Sprintf("Your order %s is now %s.", order.InvoiceNumber, status),
		StatusName:    status,
		InvoiceNumber: order.InvoiceNumber,
	}
}

// OutboundNotification is the payload handed to the mail sender or the queue.
type OutboundNotification struct {
	MessageID uuid.UUID `json:"message_id"`

	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`

	OrderID          int64                `json:"order_id"`
	InvoiceNumber    string               `json:"invoice_number"`
	StatusName       string               `json:"status_name"`
	RegisteredAt     time.Time            `json:"registered_at"`
	CustomerFullName string               `json:"customer_full_name"`
	CustomerEmail    string               `json:"customer_email"`
	Total            string               `json:"total"`
	Payment          string               `json:"payment"`
	Change           string               `json:"change"`
	Currency         string               `json:"currency"`
	Lines            []OutboundLineDetail `json:"lines"`
}

type OutboundLineDetail struct {
	ProductName  string `json:"product_name"`
	ProductCode  string `json:"product_code"`
	ProductImage string `json:"product_image"`
	CategoryName string `json:"category_name"`
	Quantity     int32  `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	Subtotal     string `json:"subtotal"`
}
