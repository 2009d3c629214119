package domain

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
)

var invoicePattern = regexp.MustCompile(`^[A-Z]-\d{3}$`)

type InvoiceNumber string

func ParseInvoiceNumber(s string) (InvoiceNumber, error) {
	if !invoicePattern.MatchString(s) {
		return "", fmt.Errorf("invoice number[%s] does not match %s", s, invoicePattern)
	}
	return InvoiceNumber(s), nil
}

func (n InvoiceNumber) String() string {
	return string(n)
}

// DefaultInvoiceAttempts caps rejection sampling well above what the 26000-value
// keyspace needs at realistic order volume.
const DefaultInvoiceAttempts = 1000

type InvoiceGenerator struct {
	intN        func(n int) int
	maxAttempts int
}

// NewInvoiceGenerator uses intN as the random source, rand.IntN when nil.
// intN must be safe for concurrent use.
func NewInvoiceGenerator(intN func(n int) int, maxAttempts int) InvoiceGenerator {
	if intN == nil {
		intN = rand.IntN
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultInvoiceAttempts
	}

	return InvoiceGenerator{intN: intN, maxAttempts: maxAttempts}
}

func (g InvoiceGenerator) Draw() InvoiceNumber {
	letter := 'A' + rune(g.intN(26))
	return InvoiceNumber(fmt.Sprintf("%c-%03d", letter, g.intN(1000)))
}

// Next draws until exists reports a number as unused.
func (g InvoiceGenerator) Next(ctx context.Context, exists func(context.Context, InvoiceNumber) (bool, error)) (InvoiceNumber, error) {
	for range g.maxAttempts {
		candidate := g.Draw()

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("exists[%s]: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrInvoiceSpaceExhausted
}
