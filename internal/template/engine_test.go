package template_test

import (
	"testing"
	"time"

	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_OrderStatusEmail(t *testing.T) {
	engine, err := template.NewEngine()
	require.NoError(t, err)

	data := domain.OutboundNotification{
		InvoiceNumber:    "B-042",
		StatusName:       "Dispatched",
		RegisteredAt:     time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		CustomerFullName: "Jordan Smith",
		Total:            "20.00",
		Payment:          "25.00",
		Change:           "5.00",
		Currency:         "USD",
		Lines: []domain.OutboundLineDetail{
			{ProductName: "Widget", ProductCode: "W-1", CategoryName: "Tools", Quantity: 2, UnitPrice: "10.00", Subtotal: "20.00"},
		},
	}

	body, err := engine.Execute(template.OrderStatusEmail, data)
	require.NoError(t, err)

	assert.Contains(t, body, "Hello Jordan Smith,")
	assert.Contains(t, body, "Your order B-042 placed on 2026-03-01 10:30 is now: Dispatched.")
	assert.Contains(t, body, "- Widget (W-1, Tools): 2 x 10.00 = 20.00")
	assert.Contains(t, body, "Change:  5.00 USD")
}

func TestEngine_UnknownTemplate(t *testing.T) {
	engine, err := template.NewEngine()
	require.NoError(t, err)

	_, err = engine.Execute("missing.tmpl", nil)
	require.Error(t, err)
}
