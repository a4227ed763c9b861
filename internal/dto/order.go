package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karavan-market/karavan/internal/entity"
)

// OrderItemRequest references a catalog product in a new order.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CreateOrderRequest is the customer payload for placing an order.
// PrepaymentPercentage falls back to the store default when omitted.
type CreateOrderRequest struct {
	Items                []OrderItemRequest `json:"items"`
	DeliveryAddress      string             `json:"delivery_address"`
	ContactPhone         string             `json:"contact_phone"`
	AdditionalPhone      string             `json:"additional_phone,omitempty"`
	TelegramUsername     string             `json:"telegram_username,omitempty"`
	PaymentScreenshot    string             `json:"payment_screenshot,omitempty"`
	PrepaymentPercentage *float64           `json:"prepayment_percentage,omitempty"`
}

// UpdateStatusRequest is the admin payload for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AttachPassportRequest is the admin payload for storing passport data.
type AttachPassportRequest struct {
	PassportData string `json:"passport_data"`
}

// OrderItemResponse is one order line over transport layers.
type OrderItemResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderResponse represents an order over transport layers.
type OrderResponse struct {
	ID                   int64               `json:"id"`
	AccountID            int64               `json:"account_id"`
	AccountPhone         string              `json:"account_phone,omitempty"`
	Items                []OrderItemResponse `json:"items"`
	DeliveryAddress      string              `json:"delivery_address"`
	ContactPhone         string              `json:"contact_phone"`
	AdditionalPhone      string              `json:"additional_phone,omitempty"`
	TelegramUsername     string              `json:"telegram_username,omitempty"`
	PaymentScreenshot    string              `json:"payment_screenshot,omitempty"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	PrepaymentAmount     decimal.Decimal     `json:"prepayment_amount"`
	PrepaymentPercentage float64             `json:"prepayment_percentage"`
	Status               string              `json:"status"`
	PassportData         string              `json:"passport_data,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// ToOrderResponse maps an order entity onto its transport shape.
func ToOrderResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		resp := OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			resp.ProductName = item.Product.Name
		}
		items = append(items, resp)
	}

	out := OrderResponse{
		ID:                   o.ID,
		AccountID:            o.AccountID,
		Items:                items,
		DeliveryAddress:      o.DeliveryAddress,
		ContactPhone:         o.ContactPhone,
		AdditionalPhone:      o.AdditionalPhone,
		TelegramUsername:     o.TelegramUsername,
		PaymentScreenshot:    o.PaymentScreenshot,
		TotalAmount:          o.TotalAmount,
		PrepaymentAmount:     o.PrepaymentAmount,
		PrepaymentPercentage: o.PrepaymentPercentage,
		Status:               string(o.Status),
		PassportData:         o.PassportData,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
	if o.Account != nil {
		out.AccountPhone = o.Account.Phone
	}
	return out
}

// ToOrderResponses maps a slice of order entities.
func ToOrderResponses(orders []entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}
