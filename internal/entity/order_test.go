package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.True(t, ValidOrderStatus(status), "%s must be recognized", status)
	}
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusConfirmed.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusPendingPayment.Terminal())
	assert.False(t, StatusPassportRequested.Terminal())
}

func TestNextOf_LinearFlow(t *testing.T) {
	flow := []OrderStatus{
		StatusPendingPayment,
		StatusPaymentVerified,
		StatusPassportRequested,
		StatusPassportVerified,
		StatusConfirmed,
	}
	for i := 0; i < len(flow)-1; i++ {
		assert.True(t, flow[i].NextOf(flow[i+1]), "%s -> %s", flow[i], flow[i+1])
	}

	// Skipping a step is not adjacent.
	assert.False(t, StatusPendingPayment.NextOf(StatusPassportRequested))
	assert.False(t, StatusPaymentVerified.NextOf(StatusConfirmed))

	// Backwards is not adjacent either.
	assert.False(t, StatusPaymentVerified.NextOf(StatusPendingPayment))
}

func TestNextOf_Rejection(t *testing.T) {
	for _, status := range []OrderStatus{StatusPendingPayment, StatusPaymentVerified, StatusPassportRequested, StatusPassportVerified} {
		assert.True(t, status.NextOf(StatusRejected), "%s must allow rejection", status)
	}
	assert.False(t, StatusConfirmed.NextOf(StatusRejected))
	assert.False(t, StatusRejected.NextOf(StatusRejected))
}
