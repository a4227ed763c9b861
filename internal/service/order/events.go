package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/entity"
)

// OrderCreatedEvent is emitted onto the order event stream when a new order
// is persisted.
type OrderCreatedEvent struct {
	ID                   int64           `json:"id"`
	AccountID            int64           `json:"account_id"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	PrepaymentAmount     decimal.Decimal `json:"prepayment_amount"`
	PrepaymentPercentage float64         `json:"prepayment_percentage"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
}

func (s *Service) publishOrderCreated(ctx context.Context, order *entity.Order) {
	if s.publisher == nil {
		return
	}
	event := OrderCreatedEvent{
		ID:                   order.ID,
		AccountID:            order.AccountID,
		TotalAmount:          order.TotalAmount,
		PrepaymentAmount:     order.PrepaymentAmount,
		PrepaymentPercentage: order.PrepaymentPercentage,
		Status:               string(order.Status),
		CreatedAt:            order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order created", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		s.logger.Error("publish order created", zap.Error(err))
	}
}
