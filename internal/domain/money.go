package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Mul(quantity int32) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt32(quantity)), Currency: m.Currency}
}

func (m Money) LessThan(other Money) bool {
	return m.Amount.LessThan(other.Amount)
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency.String() != other.Currency.String() {
		return fmt.Errorf("%s != %s: %w", m.Currency, other.Currency, ErrCurrencyMismatch)
	}
	return nil
}
