package api

import (
	"time"

	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CreateOrderLineDTO struct {
	ProductID  int64            `json:"productId"`
	SupplierID int64            `json:"supplierId"`
	Quantity   int32            `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unitPrice,omitempty"`
}

type CreateOrderDTO struct {
	CustomerID          int64                `json:"customerId"`
	Payment             decimal.Decimal      `json:"payment"`
	Lines               []CreateOrderLineDTO `json:"lines"`
	UseSyncNotification bool                 `json:"useSyncNotification"`
}

type ChangeStatusDTO struct {
	TargetStatus        *int16 `json:"targetStatus"`
	UseSyncNotification bool   `json:"useSyncNotification"`
}

type ReturnDTO struct {
	UseSyncNotification bool `json:"useSyncNotification"`
}

type OrderLineDTO struct {
	ProductID    int64  `json:"productId"`
	SupplierID   int64  `json:"supplierId"`
	ProductName  string `json:"productName"`
	ProductCode  string `json:"productCode"`
	ProductImage string `json:"productImage,omitempty"`
	CategoryName string `json:"categoryName"`
	Quantity     int32  `json:"quantity"`
	UnitPrice    string `json:"unitPrice"`
	LineTotal    string `json:"lineTotal"`
}

type OrderDTO struct {
	ID            int64          `json:"id"`
	InvoiceNumber string         `json:"invoiceNumber"`
	CustomerID    int64          `json:"customerId"`
	Status        int            `json:"status"`
	StatusName    string         `json:"statusName"`
	Payment       string         `json:"payment"`
	Total         string         `json:"total"`
	Change        string         `json:"change"`
	Currency      string         `json:"currency"`
	Version       int64          `json:"version"`
	Lines         []OrderLineDTO `json:"lines"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type DispatchDTO struct {
	Mode           string `json:"mode"`
	NotificationID string `json:"notificationId,omitempty"`
	Delivered      bool   `json:"delivered"`
	Error          string `json:"error,omitempty"`
}

type CreateOrderResponse struct {
	Order    OrderDTO    `json:"order"`
	Dispatch DispatchDTO `json:"notification"`
}

type TransitionResponse struct {
	Message  string      `json:"message"`
	Mode     string      `json:"mode"`
	OrderID  int64       `json:"orderId"`
	From     string      `json:"from"`
	To       string      `json:"to"`
	Dispatch DispatchDTO `json:"notification"`
}

type NotificationDTO struct {
	ID            string    `json:"id"`
	OrderID       int64     `json:"orderId"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Read          bool      `json:"read"`
	StatusName    string    `json:"statusName"`
	InvoiceNumber string    `json:"invoiceNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toOrderDTO(o domain.Order) OrderDTO {
	return OrderDTO{
		ID:            o.ID,
		InvoiceNumber: o.InvoiceNumber.String(),
		CustomerID:    o.CustomerID,
		Status:        int(o.Status),
		StatusName:    o.Status.String(),
		Payment:       o.Payment.Amount.StringFixed(2),
		Total:         o.Total.Amount.StringFixed(2),
		Change:        o.Change.Amount.StringFixed(2),
		Currency:      o.Total.Currency.String(),
		Version:       o.Version,
		Lines: lo.Map(o.Lines, func(l domain.OrderLine, _ int) OrderLineDTO {
			return OrderLineDTO{
				ProductID:    l.ProductID,
				SupplierID:   l.SupplierID,
				ProductName:  l.ProductName,
				ProductCode:  l.ProductCode,
				ProductImage: l.ProductImage,
				CategoryName: l.CategoryName,
				Quantity:     l.Quantity,
				UnitPrice:    l.UnitPrice.Amount.StringFixed(2),
				LineTotal:    l.LineTotal.Amount.StringFixed(2),
			}
		}),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toDispatchDTO(r domain.DispatchReport) DispatchDTO {
	dto := DispatchDTO{
		Mode:           r.Mode.String(),
		NotificationID: r.NotificationID,
		Delivered:      r.Delivered,
	}
	if r.Err != nil {
		dto.Error = r.Err.Error()
	}
	return dto
}

func toNotificationDTO(n domain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:            n.ID.String(),
		OrderID:       n.OrderID,
		Title:         n.Title,
		Message:       n.Message,
		Read:          n.Read,
		StatusName:    n.StatusName,
		InvoiceNumber: n.InvoiceNumber.String(),
		CreatedAt:     n.CreatedAt,
	}
}
