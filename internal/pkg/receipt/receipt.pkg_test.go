package receipt

import (
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/common/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "BDT 1,250.00", FormatAmount(1250))
	assert.Equal(t, "BDT 0.50", FormatAmount(0.5))
}

func TestBuild(t *testing.T) {
	order := &models.Order{
		ID:              42,
		TotalAmount:     1250,
		ShippingAddress: "Rahim\nDhaka",
		Status:          enum.ORDER_PAID,
		Items: []models.OrderItem{
			{ProductID: 1, Quantity: 2, Price: 500},
			{ProductID: 2, Quantity: 1, Price: 250},
		},
		Payment:   &models.Payment{Status: enum.PAYMENT_SUCCEEDED},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	r := Build(order)

	require.Len(t, r.Items, 2)
	assert.Equal(t, 1000.0, r.Items[0].LineTotal)
	assert.Equal(t, 1250.0, r.Subtotal)
	assert.Equal(t, ShippingFree, r.Shipping)
	assert.Equal(t, enum.PAYMENT_SUCCEEDED, r.PaymentStatus)
	assert.Equal(t, "BDT", r.Currency)

	text := string(r.Text())
	assert.Contains(t, text, "Order #42")
	assert.Contains(t, text, "  Rahim\n  Dhaka")
	assert.Contains(t, text, "Total: BDT 1,250.00")
	assert.Contains(t, text, "Shipping: FREE")
}

func TestBuildWithoutPayment(t *testing.T) {
	r := Build(&models.Order{ID: 7, Status: enum.ORDER_PENDING})

	assert.Equal(t, enum.PAYMENT_PENDING, r.PaymentStatus)
	assert.Empty(t, r.Items)
	assert.Equal(t, "receipts/7.txt", Key(7))
}
