package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/karavan-market/karavan/internal/entity"
)

func TestRenderCustomerStatus(t *testing.T) {
	cases := map[entity.OrderStatus]string{
		entity.StatusPaymentVerified:   "payment has been confirmed",
		entity.StatusPassportRequested: "passport data",
		entity.StatusConfirmed:         "finalised",
		entity.StatusRejected:          "rejected",
	}
	for status, fragment := range cases {
		text, ok := renderCustomerStatus(15, status)
		assert.True(t, ok, "status %s must produce a message", status)
		assert.Contains(t, text, fragment)
		assert.Contains(t, text, "#15")
	}

	// pending_payment and passport_verified are silent.
	_, ok := renderCustomerStatus(15, entity.StatusPendingPayment)
	assert.False(t, ok)
	_, ok = renderCustomerStatus(15, entity.StatusPassportVerified)
	assert.False(t, ok)
}

func TestRenderAdminNewOrder_FallsBackToProductID(t *testing.T) {
	order := &entity.Order{
		ID:                   3,
		DeliveryAddress:      "Moscow",
		ContactPhone:         "+79990001122",
		PrepaymentAmount:     decimal.NewFromInt(500),
		PrepaymentPercentage: 50,
		Status:               entity.StatusPendingPayment,
		Items: []entity.OrderItem{
			{ProductID: 9, Quantity: 1, Price: decimal.NewFromInt(1000)},
		},
	}
	account := &entity.Account{Phone: "+79990001122"}

	text := renderAdminNewOrder(order, account)
	assert.Contains(t, text, "product 9 x1")
	assert.Contains(t, text, "500.00 (50%)")
}
