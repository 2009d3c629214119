package domain

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID            int64
	InvoiceNumber InvoiceNumber
	CustomerID    int64
	Payment       Money
	Change        Money
	Total         Money
	Status        OrderStatus
	Lines         []OrderLine

	// Version is bumped on every status write and checked by the next one.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine keeps product details as they were at sale time so later catalog
// edits don't alter past invoices.
type OrderLine struct {
	ProductID  int64
	SupplierID int64

	ProductName  string
	ProductCode  string
	ProductImage string
	CategoryName string

	UnitPrice Money
	Quantity  int32
	LineTotal Money
}

func NewOrderLine(product Product, supplierID int64, unitPrice Money, quantity int32) OrderLine {
	return OrderLine{
		ProductID:    product.ID,
		SupplierID:   supplierID,
		ProductName:  product.Name,
		ProductCode:  product.Code,
		ProductImage: product.ImageURL,
		CategoryName: product.CategoryName,
		UnitPrice:    unitPrice,
		Quantity:     quantity,
		LineTotal:    unitPrice.Mul(quantity),
	}
}

// LinesTotal sums quantity * unit price over all lines, in the currency of the first line.
func (o Order) LinesTotal() Money {
	if len(o.Lines) == 0 {
		return Money{Amount: decimal.Zero, Currency: o.Total.Currency}
	}

	amount := lo.Reduce(o.Lines, func(acc decimal.Decimal, line OrderLine, _ int) decimal.Decimal {
		return acc.Add(line.UnitPrice.Amount.Mul(decimal.NewFromInt32(line.Quantity)))
	}, decimal.Zero)

	return Money{Amount: amount, Currency: o.Lines[0].UnitPrice.Currency}
}

// Settle computes Total and Change from the lines and the payment.
func (o *Order) Settle() error {
	if len(o.Lines) == 0 {
		return ErrEmptyOrder
	}

	o.Total = o.LinesTotal()

	if o.Payment.LessThan(o.Total) {
		return ErrInsufficientPayment
	}

	change, err := o.Payment.Sub(o.Total)
	if err != nil {
		return err
	}
	o.Change = change

	return nil
}
