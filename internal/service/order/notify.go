package order

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/entity"
)

// Notification dispatch is fire-and-forget: the state transition is already
// committed when any of these run, so failures are logged and swallowed.

func (s *Service) notifyAdminNewOrder(ctx context.Context, order *entity.Order) {
	if !s.notifier.Enabled() || s.opts.AdminChatID == "" {
		return
	}

	account, err := s.accountFor(ctx, order)
	if err != nil {
		s.logger.Warn("admin notification skipped: account lookup failed", zap.Int64("order_id", order.ID), zap.Error(err))
		return
	}

	text := renderAdminNewOrder(order, account)
	if err := s.notifier.SendMessage(ctx, s.opts.AdminChatID, text); err != nil {
		s.logger.Warn("admin notification failed", zap.Int64("order_id", order.ID), zap.Error(err))
		return
	}

	if order.PaymentScreenshot != "" {
		if err := s.notifier.SendPhoto(ctx, s.opts.AdminChatID, order.PaymentScreenshot, "Payment screenshot"); err != nil {
			s.logger.Warn("payment screenshot forward failed", zap.Int64("order_id", order.ID), zap.Error(err))
		}
	}
}

func (s *Service) notifyCustomerStatus(ctx context.Context, order *entity.Order, status entity.OrderStatus) {
	if !s.notifier.Enabled() {
		return
	}

	text, ok := renderCustomerStatus(order.ID, status)
	if !ok {
		return
	}

	account, err := s.accountFor(ctx, order)
	if err != nil {
		s.logger.Warn("customer notification skipped: account lookup failed", zap.Int64("order_id", order.ID), zap.Error(err))
		return
	}
	if account.TelegramID == "" {
		return
	}

	if err := s.notifier.SendMessage(ctx, account.TelegramID, text); err != nil {
		s.logger.Warn("customer notification failed", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func (s *Service) notifyPassportRequest(ctx context.Context, order *entity.Order) {
	if !s.notifier.Enabled() {
		return
	}

	account, err := s.accountFor(ctx, order)
	if err != nil {
		s.logger.Warn("passport request skipped: account lookup failed", zap.Int64("order_id", order.ID), zap.Error(err))
		return
	}
	if account.TelegramID == "" {
		return
	}

	if err := s.notifier.SendMessage(ctx, account.TelegramID, renderPassportRequest(order.ID)); err != nil {
		s.logger.Warn("passport request failed", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func renderAdminNewOrder(order *entity.Order, account *entity.Account) string {
	var lines strings.Builder
	for _, item := range order.Items {
		name := fmt.Sprintf("product %d", item.ProductID)
		if item.Product != nil {
			name = item.Product.Name
		}
		fmt.Fprintf(&lines, "- %s x%d (%s)\n", name, item.Quantity, item.Price.StringFixed(2))
	}

	return fmt.Sprintf(
		"New order #%d\n\nCustomer: %s\nItems:\n%sAddress: %s\nPhone: %s\nPrepayment: %s (%.0f%%)\n\nStatus: %s",
		order.ID,
		account.Phone,
		lines.String(),
		order.DeliveryAddress,
		order.ContactPhone,
		order.PrepaymentAmount.StringFixed(2),
		order.PrepaymentPercentage,
		order.Status,
	)
}

// renderCustomerStatus maps a status to its customer-facing template.
// Statuses without a mapping produce no message at all.
func renderCustomerStatus(orderID int64, status entity.OrderStatus) (string, bool) {
	switch status {
	case entity.StatusPaymentVerified:
		return fmt.Sprintf("Your payment has been confirmed! Order #%d is now being processed.", orderID), true
	case entity.StatusPassportRequested:
		return fmt.Sprintf("Order #%d requires your passport data. Please send it to the bot.", orderID), true
	case entity.StatusConfirmed:
		return fmt.Sprintf("Your order #%d has been finalised! We will contact you to arrange delivery.", orderID), true
	case entity.StatusRejected:
		return fmt.Sprintf("Order #%d was rejected. Please contact support for details.", orderID), true
	default:
		return "", false
	}
}

func renderPassportRequest(orderID int64) string {
	return fmt.Sprintf(
		"Order #%d requires your passport data.\n\nPlease send:\n- passport series and number\n- issue date\n- issuing authority",
		orderID,
	)
}
