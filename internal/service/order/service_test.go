package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/auth"
	"github.com/karavan-market/karavan/internal/dto"
	"github.com/karavan-market/karavan/internal/entity"
	orderrepo "github.com/karavan-market/karavan/internal/repository/order"
	productrepo "github.com/karavan-market/karavan/internal/repository/product"
	"github.com/karavan-market/karavan/pkg/errorbank"
)

type fakeOrderStore struct {
	orders map[int64]*entity.Order
	nextID int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[int64]*entity.Order), nextID: 1}
}

func (f *fakeOrderStore) Create(ctx context.Context, order *entity.Order) error {
	order.ID = f.nextID
	f.nextID++
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, orderrepo.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderStore) ListByAccount(ctx context.Context, accountID int64) ([]entity.Order, error) {
	var out []entity.Order
	for _, order := range f.orders {
		if order.AccountID == accountID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListAll(ctx context.Context) ([]entity.Order, error) {
	var out []entity.Order
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, orderrepo.ErrNotFound
	}
	order.Status = status
	clone := *order
	return &clone, nil
}

func (f *fakeOrderStore) UpdatePassport(ctx context.Context, id int64, passportData string, status entity.OrderStatus) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, orderrepo.ErrNotFound
	}
	order.PassportData = passportData
	order.Status = status
	clone := *order
	return &clone, nil
}

type fakeProductFinder struct {
	products map[int64]*entity.Product
}

func (f *fakeProductFinder) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, productrepo.ErrNotFound
	}
	return product, nil
}

type fakeAccountFinder struct {
	accounts map[int64]*entity.Account
}

func (f *fakeAccountFinder) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d not found", id)
	}
	return account, nil
}

type staticPercentage float64

func (p staticPercentage) DefaultPrepaymentPercentage(context.Context) float64 {
	return float64(p)
}

type sentMessage struct {
	chatID string
	text   string
}

type recordingNotifier struct {
	messages []sentMessage
	photos   []sentMessage
}

func (r *recordingNotifier) SendMessage(ctx context.Context, chatID string, text string) error {
	r.messages = append(r.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func (r *recordingNotifier) SendPhoto(ctx context.Context, chatID string, photoRef string, caption string) error {
	r.photos = append(r.photos, sentMessage{chatID: chatID, text: photoRef})
	return nil
}

func (r *recordingNotifier) Enabled() bool { return true }

type recordingPublisher struct {
	published [][]byte
}

func (r *recordingPublisher) Publish(ctx context.Context, key []byte, value []byte) error {
	r.published = append(r.published, value)
	return nil
}

type fixture struct {
	svc       *Service
	store     *fakeOrderStore
	notifier  *recordingNotifier
	publisher *recordingPublisher
	accounts  *fakeAccountFinder
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	store := newFakeOrderStore()
	products := &fakeProductFinder{products: map[int64]*entity.Product{
		1: {ID: 1, Name: "iPhone 15 Pro", Price: decimal.NewFromInt(100000), InStock: true},
		2: {ID: 2, Name: "AirPods Pro", Price: decimal.NewFromInt(50000), InStock: true},
		3: {ID: 3, Name: "Sold Out Watch", Price: decimal.NewFromInt(30000), InStock: false},
	}}
	accounts := &fakeAccountFinder{accounts: map[int64]*entity.Account{
		7: {ID: 7, Phone: "+79990001122", TelegramID: "424242"},
		8: {ID: 8, Phone: "+79990003344"},
	}}
	notifierClient := &recordingNotifier{}
	publisher := &recordingPublisher{}

	svc := NewService(store, products, accounts, staticPercentage(50), notifierClient, publisher, zap.NewNop(), opts)
	return &fixture{svc: svc, store: store, notifier: notifierClient, publisher: publisher, accounts: accounts}
}

func customer(id int64) auth.Principal {
	return auth.Principal{AccountID: id}
}

var admin = auth.Principal{AccountID: 1, Admin: true}

func placeOrder(t *testing.T, f *fixture) *entity.Order {
	t.Helper()
	order, err := f.svc.Create(context.Background(), customer(7), dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
		DeliveryAddress: "Moscow, Tverskaya 1",
		ContactPhone:    "+79990001122",
	})
	require.NoError(t, err)
	return order
}

func TestCreate_PricesAndPrepayment(t *testing.T) {
	f := newFixture(t, Options{AdminChatID: "100500"})

	order := placeOrder(t, f)

	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(250000)), "total was %s", order.TotalAmount)
	assert.True(t, order.PrepaymentAmount.Equal(decimal.NewFromInt(125000)), "prepayment was %s", order.PrepaymentAmount)
	assert.Equal(t, 50.0, order.PrepaymentPercentage)
	assert.Equal(t, entity.StatusPendingPayment, order.Status)

	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(100000)))
	assert.True(t, order.Items[1].Price.Equal(decimal.NewFromInt(50000)))
}

func TestCreate_CustomPercentage(t *testing.T) {
	f := newFixture(t, Options{})
	pct := 30.0

	order, err := f.svc.Create(context.Background(), customer(7), dto.CreateOrderRequest{
		Items:                []dto.OrderItemRequest{{ProductID: 2, Quantity: 1}},
		DeliveryAddress:      "SPb, Nevsky 10",
		ContactPhone:         "+79990001122",
		PrepaymentPercentage: &pct,
	})
	require.NoError(t, err)

	assert.Equal(t, 30.0, order.PrepaymentPercentage)
	assert.True(t, order.PrepaymentAmount.Equal(decimal.NewFromInt(15000)), "prepayment was %s", order.PrepaymentAmount)
}

func TestCreate_PercentageOutOfRange(t *testing.T) {
	f := newFixture(t, Options{})
	pct := 150.0

	_, err := f.svc.Create(context.Background(), customer(7), dto.CreateOrderRequest{
		Items:                []dto.OrderItemRequest{{ProductID: 1, Quantity: 1}},
		DeliveryAddress:      "Moscow",
		ContactPhone:         "+79990001122",
		PrepaymentPercentage: &pct,
	})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestCreate_RoundsPrepayment(t *testing.T) {
	f := newFixture(t, Options{})
	pct := 33.0

	order, err := f.svc.Create(context.Background(), customer(7), dto.CreateOrderRequest{
		Items:                []dto.OrderItemRequest{{ProductID: 1, Quantity: 1}},
		DeliveryAddress:      "Moscow",
		ContactPhone:         "+79990001122",
		PrepaymentPercentage: &pct,
	})
	require.NoError(t, err)

	// 100000 * 33 / 100 = 33000, rounded to 2 decimal places.
	assert.True(t, order.PrepaymentAmount.Equal(decimal.NewFromInt(33000)))
	assert.GreaterOrEqual(t, order.PrepaymentAmount.Exponent(), int32(-2))
}

func TestCreate_OutOfStockConflict(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.Create(context.Background(), customer(7), dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: 3, Quantity: 1}},
		DeliveryAddress: "Moscow",
		ContactPhone:    "+79990001122",
	})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())
	assert.Empty(t, f.store.orders, "order must not be persisted")
	assert.Empty(t, f.publisher.published)
}

func TestCreate_UnknownProduct(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.Create(context.Background(), customer(7), dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: 99, Quantity: 1}},
		DeliveryAddress: "Moscow",
		ContactPhone:    "+79990001122",
	})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.Create(context.Background(), customer(7), dto.CreateOrderRequest{})
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	assert.Contains(t, appErr.Details(), "items")
	assert.Contains(t, appErr.Details(), "delivery_address")
	assert.Contains(t, appErr.Details(), "contact_phone")
}

func TestCreate_ZeroQuantityRejected(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.Create(context.Background(), customer(7), dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: 1, Quantity: 0}},
		DeliveryAddress: "Moscow",
		ContactPhone:    "+79990001122",
	})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestCreate_NotifiesAdminAndPublishes(t *testing.T) {
	f := newFixture(t, Options{AdminChatID: "100500"})

	order := placeOrder(t, f)

	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, "100500", f.notifier.messages[0].chatID)
	assert.Contains(t, f.notifier.messages[0].text, fmt.Sprintf("New order #%d", order.ID))
	assert.Contains(t, f.notifier.messages[0].text, "iPhone 15 Pro x2")
	assert.Contains(t, f.notifier.messages[0].text, "125000.00")

	require.Len(t, f.publisher.published, 1)
}

func TestCreate_NoAdminChatConfigured(t *testing.T) {
	f := newFixture(t, Options{})

	placeOrder(t, f)

	assert.Empty(t, f.notifier.messages)
}

func TestGet_OwnerAndAdminOnly(t *testing.T) {
	f := newFixture(t, Options{})
	order := placeOrder(t, f)

	_, err := f.svc.Get(context.Background(), customer(7), order.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(context.Background(), admin, order.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(context.Background(), customer(8), order.ID)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.Get(context.Background(), admin, 404)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestUpdateStatus_PermissiveAllowsAnyRecognizedStatus(t *testing.T) {
	f := newFixture(t, Options{})
	order := placeOrder(t, f)

	// Jumping straight to confirmed skips the linear flow; permissive mode
	// treats it as an admin override.
	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, updated.Status)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(t, Options{})
	order := placeOrder(t, f)

	_, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.OrderStatus("shipped"))
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestUpdateStatus_StrictEnforcesAdjacency(t *testing.T) {
	f := newFixture(t, Options{StrictTransitions: true})
	order := placeOrder(t, f)

	_, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusPaymentVerified)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaymentVerified, updated.Status)
}

func TestUpdateStatus_StrictAllowsSameStatus(t *testing.T) {
	f := newFixture(t, Options{StrictTransitions: true})
	order := placeOrder(t, f)

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusPendingPayment)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingPayment, updated.Status)
}

func TestUpdateStatus_StrictAllowsRejectionFromAnyActiveState(t *testing.T) {
	f := newFixture(t, Options{StrictTransitions: true})
	order := placeOrder(t, f)

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, updated.Status)

	// Terminal: nothing moves a rejected order.
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())
}

func TestUpdateStatus_NotifiesCustomer(t *testing.T) {
	f := newFixture(t, Options{})
	order := placeOrder(t, f)
	f.notifier.messages = nil

	_, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusPaymentVerified)
	require.NoError(t, err)

	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, "424242", f.notifier.messages[0].chatID)
	assert.Contains(t, f.notifier.messages[0].text, "payment has been confirmed")
}

func TestUpdateStatus_SkipsCustomerWithoutTelegram(t *testing.T) {
	f := newFixture(t, Options{})
	order, err := f.svc.Create(context.Background(), customer(8), dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: 1, Quantity: 1}},
		DeliveryAddress: "Moscow",
		ContactPhone:    "+79990003344",
	})
	require.NoError(t, err)
	f.notifier.messages = nil

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusPaymentVerified)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.messages)
}

func TestUpdateStatus_PassportVerifiedIsSilent(t *testing.T) {
	f := newFixture(t, Options{})
	order := placeOrder(t, f)
	f.notifier.messages = nil

	_, err := f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusPassportVerified)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.messages)
}

func TestRequestPassport_RequiresPaymentVerified(t *testing.T) {
	f := newFixture(t, Options{})
	order := placeOrder(t, f)

	_, err := f.svc.RequestPassport(context.Background(), order.ID)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, entity.StatusPaymentVerified)
	require.NoError(t, err)
	f.notifier.messages = nil

	updated, err := f.svc.RequestPassport(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPassportRequested, updated.Status)

	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0].text, "passport data")
}

func TestRequestPassport_NotFound(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.RequestPassport(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestAttachPassport(t *testing.T) {
	f := newFixture(t, Options{})
	order := placeOrder(t, f)

	updated, err := f.svc.AttachPassport(context.Background(), order.ID, "4509 123456, issued 01.02.2020")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPassportVerified, updated.Status)
	assert.Equal(t, "4509 123456, issued 01.02.2020", updated.PassportData)
}

func TestAttachPassport_RequiresData(t *testing.T) {
	f := newFixture(t, Options{})
	order := placeOrder(t, f)

	_, err := f.svc.AttachPassport(context.Background(), order.ID, "")
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestListMine_OnlyOwnOrders(t *testing.T) {
	f := newFixture(t, Options{})
	placeOrder(t, f)

	_, err := f.svc.Create(context.Background(), customer(8), dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: 2, Quantity: 1}},
		DeliveryAddress: "Kazan",
		ContactPhone:    "+79990003344",
	})
	require.NoError(t, err)

	mine, err := f.svc.ListMine(context.Background(), customer(7))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
