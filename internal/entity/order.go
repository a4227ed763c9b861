package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPendingPayment    OrderStatus = "pending_payment"
	StatusPaymentVerified   OrderStatus = "payment_verified"
	StatusPassportRequested OrderStatus = "passport_requested"
	StatusPassportVerified  OrderStatus = "passport_verified"
	StatusConfirmed         OrderStatus = "confirmed"
	StatusRejected          OrderStatus = "rejected"
)

// OrderStatuses lists every recognized status value.
var OrderStatuses = []OrderStatus{
	StatusPendingPayment,
	StatusPaymentVerified,
	StatusPassportRequested,
	StatusPassportVerified,
	StatusConfirmed,
	StatusRejected,
}

// ValidOrderStatus reports whether s is one of the recognized statuses.
func ValidOrderStatus(s OrderStatus) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusRejected
}

// NextOf reports whether next directly follows s in the linear flow
// pending_payment -> payment_verified -> passport_requested ->
// passport_verified -> confirmed. Rejection is allowed from any
// non-terminal state. Only consulted in strict-transition mode.
func (s OrderStatus) NextOf(next OrderStatus) bool {
	if next == StatusRejected {
		return !s.Terminal()
	}
	switch s {
	case StatusPendingPayment:
		return next == StatusPaymentVerified
	case StatusPaymentVerified:
		return next == StatusPassportRequested
	case StatusPassportRequested:
		return next == StatusPassportVerified
	case StatusPassportVerified:
		return next == StatusConfirmed
	default:
		return false
	}
}

// Order is a purchase with line items priced at creation time. Account and
// Product rows are referenced by id only; the unit price on each item is a
// snapshot so catalog edits never reprice historical orders.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID                   int64           `bun:",pk,autoincrement"`
	AccountID            int64           `bun:"account_id,notnull"`
	Account              *Account        `bun:"rel:belongs-to,join:account_id=id"`
	Items                []OrderItem     `bun:"rel:has-many,join:id=order_id"`
	DeliveryAddress      string          `bun:"delivery_address,notnull"`
	ContactPhone         string          `bun:"contact_phone,notnull"`
	AdditionalPhone      string          `bun:"additional_phone,nullzero"`
	TelegramUsername     string          `bun:"telegram_username,nullzero"`
	PaymentScreenshot    string          `bun:"payment_screenshot,nullzero"`
	TotalAmount          decimal.Decimal `bun:"total_amount,notnull,type:numeric(14,2)"`
	PrepaymentAmount     decimal.Decimal `bun:"prepayment_amount,notnull,type:numeric(14,2)"`
	PrepaymentPercentage float64         `bun:"prepayment_percentage,notnull,default:50"`
	Status               OrderStatus     `bun:"status,notnull,default:'pending_payment'"`
	PassportData         string          `bun:"passport_data,nullzero"`
	CreatedAt            time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time       `bun:"updated_at,nullzero"`
}

// OrderItem is one order line: product reference, quantity and the unit
// price captured when the order was placed.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID        int64           `bun:",pk,autoincrement"`
	OrderID   int64           `bun:"order_id,notnull"`
	ProductID int64           `bun:"product_id,notnull"`
	Product   *Product        `bun:"rel:belongs-to,join:product_id=id"`
	Quantity  int             `bun:"quantity,notnull"`
	Price     decimal.Decimal `bun:"price,notnull,type:numeric(14,2)"`
}
