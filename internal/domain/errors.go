package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("order not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrConcurrentUpdate      = errors.New("order was modified concurrently")
	ErrInsufficientPayment   = errors.New("payment does not cover order total")
	ErrInvoiceSpaceExhausted = errors.New("no free invoice number found")
	ErrEmptyOrder            = errors.New("no lines in order")
	ErrCurrencyMismatch      = errors.New("currency mismatch")
)

type InsufficientStockError struct {
	ProductID int64
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
