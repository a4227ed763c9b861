package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/auth"
	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/entity"
	"github.com/karavan-market/karavan/internal/notifier"
	accountrepo "github.com/karavan-market/karavan/internal/repository/account"
	orderrepo "github.com/karavan-market/karavan/internal/repository/order"
	productrepo "github.com/karavan-market/karavan/internal/repository/product"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/karavan-market/karavan/service/order")

// OrderStore is the persistence surface the lifecycle engine needs.
type OrderStore interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	ListByAccount(ctx context.Context, accountID int64) ([]entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) (*entity.Order, error)
	UpdatePassport(ctx context.Context, id int64, passportData string, status entity.OrderStatus) (*entity.Order, error)
}

// ProductFinder resolves catalog products for line-item pricing.
type ProductFinder interface {
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
}

// AccountFinder resolves accounts for notification targeting.
type AccountFinder interface {
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
}

// PercentageSource supplies the store-wide default prepayment percentage.
type PercentageSource interface {
	DefaultPrepaymentPercentage(ctx context.Context) float64
}

// Publisher emits order events onto the message bus.
type Publisher interface {
	Publish(ctx context.Context, key []byte, value []byte) error
}

// Options tune lifecycle behavior.
type Options struct {
	// StrictTransitions enforces linear status adjacency on UpdateStatus.
	// Off by default: the public status endpoint historically accepts any
	// recognized status from any state as an admin override.
	StrictTransitions bool
	AdminChatID       string
}

// Service owns order creation, pricing, and status-transition rules.
type Service struct {
	orders      OrderStore
	products    ProductFinder
	accounts    AccountFinder
	percentages PercentageSource
	notifier    notifier.Client
	publisher   Publisher
	logger      *zap.Logger
	opts        Options
}

// NewService wires the lifecycle engine. notifier and publisher may be noop
// implementations; dispatch failures never affect state transitions.
func NewService(
	orders OrderStore,
	products ProductFinder,
	accounts AccountFinder,
	percentages PercentageSource,
	notifierClient notifier.Client,
	publisher Publisher,
	logger *zap.Logger,
	opts Options,
) *Service {
	return &Service{
		orders:      orders,
		products:    products,
		accounts:    accounts,
		percentages: percentages,
		notifier:    notifierClient,
		publisher:   publisher,
		logger:      logger,
		opts:        opts,
	}
}

// Create prices the requested line items against the catalog, snapshots unit
// prices, computes the prepayment, and persists the order in
// pending_payment. The admin notification and the order-created event are
// best-effort side effects after the write commits.
func (s *Service) Create(ctx context.Context, principal auth.Principal, req dto.CreateOrderRequest) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.Int64("account.id", principal.AccountID)))
	defer span.End()

	if fields := validateCreate(req); len(fields) > 0 {
		return nil, errorbank.Validation(fields)
	}

	percentage := s.percentages.DefaultPrepaymentPercentage(ctx)
	if req.PrepaymentPercentage != nil {
		percentage = *req.PrepaymentPercentage
	}
	if percentage < 0 || percentage > 100 {
		return nil, errorbank.Validation(map[string]any{"prepayment_percentage": "must be between 0 and 100"})
	}

	total := decimal.Zero
	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, productrepo.ErrNotFound) {
				return nil, errorbank.NotFound(fmt.Sprintf("product %d not found", line.ProductID))
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "catalog lookup failed")
			return nil, errorbank.Internal("failed to resolve product", errorbank.WithCause(err))
		}
		if !product.InStock {
			return nil, errorbank.Conflict(fmt.Sprintf("product %q is out of stock", product.Name))
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, entity.OrderItem{
			ProductID: product.ID,
			Product:   product,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	now := time.Now().UTC()
	order := &entity.Order{
		AccountID:            principal.AccountID,
		Items:                items,
		DeliveryAddress:      req.DeliveryAddress,
		ContactPhone:         req.ContactPhone,
		AdditionalPhone:      req.AdditionalPhone,
		TelegramUsername:     req.TelegramUsername,
		PaymentScreenshot:    req.PaymentScreenshot,
		TotalAmount:          total,
		PrepaymentAmount:     prepayment(total, percentage),
		PrepaymentPercentage: percentage,
		Status:               entity.StatusPendingPayment,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.notifyAdminNewOrder(ctx, order)
	s.publishOrderCreated(ctx, order)

	return order, nil
}

// Get returns a single order. Callers must be the owner or an administrator.
func (s *Service) Get(ctx context.Context, principal auth.Principal, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.getOrder(ctx, span, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccessOrderOf(order.AccountID) {
		return nil, errorbank.Forbidden("access denied")
	}
	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *Service) ListMine(ctx context.Context, principal auth.Principal) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListMine", trace.WithAttributes(attribute.Int64("account.id", principal.AccountID)))
	defer span.End()

	orders, err := s.orders.ListByAccount(ctx, principal.AccountID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// ListAll returns every order, newest first. Admin only; enforced at the
// transport layer.
func (s *Service) ListAll(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListAll")
	defer span.End()

	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// UpdateStatus persists the requested status and dispatches the mapped
// customer notification. Permissive by default: any recognized status is
// accepted from any current state. In strict mode the transition must
// follow the linear flow (re-applying the current status stays a no-op).
func (s *Service) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	if !entity.ValidOrderStatus(status) {
		return nil, errorbank.Validation(map[string]any{"status": "unrecognized status"})
	}

	current, err := s.getOrder(ctx, span, id)
	if err != nil {
		return nil, err
	}

	if s.opts.StrictTransitions && status != current.Status && !current.Status.NextOf(status) {
		return nil, errorbank.Conflict(fmt.Sprintf("cannot move order from %s to %s", current.Status, status))
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order status", errorbank.WithCause(err))
	}

	s.notifyCustomerStatus(ctx, order, status)

	return order, nil
}

// RequestPassport moves a payment_verified order to passport_requested and
// asks the customer for passport data through the bot. Any other current
// status is a conflict. A missing linked telegram identity is not an error;
// the transition still commits.
func (s *Service) RequestPassport(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.RequestPassport", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	current, err := s.getOrder(ctx, span, id)
	if err != nil {
		return nil, err
	}
	if current.Status != entity.StatusPaymentVerified {
		return nil, errorbank.Conflict("order payment must be verified before requesting passport data")
	}

	order, err := s.orders.UpdateStatus(ctx, id, entity.StatusPassportRequested)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order status", errorbank.WithCause(err))
	}

	s.notifyPassportRequest(ctx, order)

	return order, nil
}

// AttachPassport stores the passport data verbatim and forces the order to
// passport_verified regardless of its prior status.
func (s *Service) AttachPassport(ctx context.Context, id int64, passportData string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.AttachPassport", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if passportData == "" {
		return nil, errorbank.Validation(map[string]any{"passport_data": "is required"})
	}

	order, err := s.orders.UpdatePassport(ctx, id, passportData, entity.StatusPassportVerified)
	if err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to store passport data", errorbank.WithCause(err))
	}
	return order, nil
}

func (s *Service) getOrder(ctx context.Context, span trace.Span, id int64) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}
	return order, nil
}

// accountFor resolves the order's owning account, preferring the row joined
// onto the order when present.
func (s *Service) accountFor(ctx context.Context, order *entity.Order) (*entity.Account, error) {
	if order.Account != nil {
		return order.Account, nil
	}
	account, err := s.accounts.GetByID(ctx, order.AccountID)
	if err != nil {
		if errors.Is(err, accountrepo.ErrNotFound) {
			return nil, err
		}
		return nil, err
	}
	return account, nil
}

// prepayment computes the upfront amount: total * percentage / 100, rounded
// to 2 decimal places. Computed once at creation and never again.
func prepayment(total decimal.Decimal, percentage float64) decimal.Decimal {
	return total.Mul(decimal.NewFromFloat(percentage)).Div(decimal.NewFromInt(100)).Round(2)
}

func validateCreate(req dto.CreateOrderRequest) map[string]any {
	fields := make(map[string]any)
	if len(req.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			fields["items"] = "quantity must be at least 1"
			break
		}
	}
	if req.DeliveryAddress == "" {
		fields["delivery_address"] = "is required"
	}
	if req.ContactPhone == "" {
		fields["contact_phone"] = "is required"
	}
	return fields
}
