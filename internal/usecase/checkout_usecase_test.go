package usecase

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"app/internal/domain/model"
	"app/internal/gateway"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CkPendingRepoMock struct{ mock.Mock }

func (m *CkPendingRepoMock) Create(ctx context.Context, p *model.PendingPayment) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = 1
	}
	return args.Error(0)
}

func (m *CkPendingRepoMock) FindByToken(ctx context.Context, token string) (model.PendingPayment, error) {
	args := m.Called(ctx, token)
	p, _ := args.Get(0).(model.PendingPayment)
	return p, args.Error(1)
}

func (m *CkPendingRepoMock) UpdateStatus(ctx context.Context, id int64, status model.PendingPaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type CkAuditRepoMock struct{ mock.Mock }

func (m *CkAuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *CkAuditRepoMock) ListByUserID(ctx context.Context, userID int64, limit int) ([]model.AuditLog, error) {
	args := m.Called(ctx, userID, limit)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type CkOrderRepoMock struct{ mock.Mock }

func (m *CkOrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CkOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CkOrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	panic("not used in CheckoutUsecase tests")
}

type CkOrderItemRepoMock struct{ mock.Mock }

func (m *CkOrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *CkOrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	panic("not used in CheckoutUsecase tests")
}

// txRepoSetMock はWithinTxのコールバックにそのまま渡す束。
type txRepoSetMock struct {
	orders    *CkOrderRepoMock
	items     *CkOrderItemRepoMock
	cartItems *CartItemRepoMock
	pendings  *CkPendingRepoMock
	products  *CartProductRepoMock
}

func (r *txRepoSetMock) Orders() repo.OrderRepository                   { return r.orders }
func (r *txRepoSetMock) OrderItems() repo.OrderItemRepository           { return r.items }
func (r *txRepoSetMock) CartItems() repo.CartItemRepository             { return r.cartItems }
func (r *txRepoSetMock) PendingPayments() repo.PendingPaymentRepository { return r.pendings }
func (r *txRepoSetMock) Products() repo.ProductRepository               { return r.products }

// trivialTxManager はコールバックを素通しする（commit/rollbackの偽装はしない）。
type trivialTxManager struct{ repos *txRepoSetMock }

func (t *trivialTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t.repos)
}

type PayPalGatewayMock struct{ mock.Mock }

func (m *PayPalGatewayMock) CreateOrder(ctx context.Context, totalMinor int64, currency string, returnURL string, cancelURL string) (string, string, error) {
	args := m.Called(ctx, totalMinor, currency, returnURL, cancelURL)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *PayPalGatewayMock) CaptureOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type StripeGatewayMock struct{ mock.Mock }

func (m *StripeGatewayMock) CreateSession(ctx context.Context, lines []gateway.CheckoutLine, currency string, successURL string, cancelURL string) (string, string, error) {
	args := m.Called(ctx, lines, currency, successURL, cancelURL)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *StripeGatewayMock) ConfirmSession(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

// =====================
// 組み立てヘルパ
// =====================

type checkoutFixture struct {
	uc       *CheckoutUsecase
	cart     *CartItemRepoMock
	products *CartProductRepoMock
	pendings *CkPendingRepoMock
	audit    *CkAuditRepoMock
	orders   *CkOrderRepoMock
	items    *CkOrderItemRepoMock
	paypal   *PayPalGatewayMock
	stripe   *StripeGatewayMock
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		cart:     new(CartItemRepoMock),
		products: new(CartProductRepoMock),
		pendings: new(CkPendingRepoMock),
		audit:    new(CkAuditRepoMock),
		orders:   new(CkOrderRepoMock),
		items:    new(CkOrderItemRepoMock),
		paypal:   new(PayPalGatewayMock),
		stripe:   new(StripeGatewayMock),
	}

	tx := &trivialTxManager{repos: &txRepoSetMock{
		orders:    f.orders,
		items:     f.items,
		cartItems: f.cart,
		pendings:  f.pendings,
		products:  f.products,
	}}

	f.uc = NewCheckoutUsecase(
		f.cart, f.products, f.pendings, f.audit, tx,
		f.paypal, f.stripe,
		"http://api.local", "BRL",
		zap.NewNop(),
	)
	return f
}

func (f *checkoutFixture) stubCart(userID int64, items []model.CartItem, products map[int64]model.Product) {
	f.cart.On("ListByUserID", mock.Anything, userID).Return(items, nil)
	for id, p := range products {
		f.products.On("FindByID", mock.Anything, id).Return(p, nil)
	}
}

// =====================
// Initiate
// =====================

func TestInitiatePayPal_EmptyCartNeverCallsGateway(t *testing.T) {
	f := newCheckoutFixture()
	f.stubCart(1, []model.CartItem{}, nil)

	_, err := f.uc.InitiatePayPal(context.Background(), 1)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "cart empty", he.Message)
	//外部ゲートウェイは一度も呼ばれない
	f.paypal.AssertNumberOfCalls(t, "CreateOrder", 0)
	f.pendings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInitiateStripe_EmptyCartNeverCallsGateway(t *testing.T) {
	f := newCheckoutFixture()
	f.stubCart(1, []model.CartItem{}, nil)

	_, err := f.uc.InitiateStripe(context.Background(), 1)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	f.stripe.AssertNumberOfCalls(t, "CreateSession", 0)
}

func TestInitiatePayPal_HappyPath(t *testing.T) {
	f := newCheckoutFixture()
	f.stubCart(1,
		[]model.CartItem{
			{ID: 100, UserID: 1, ProductID: 10, Quantity: 2},
			{ID: 101, UserID: 1, ProductID: 11, Quantity: 1},
		},
		map[int64]model.Product{
			10: {ID: 10, Name: "Camiseta Básica", Price: 4990},
			11: {ID: 11, Name: "Vestido Midi", Price: 12990},
		})

	f.paypal.On("CreateOrder", mock.Anything, int64(22970), "BRL",
		mock.MatchedBy(func(u string) bool { return strings.HasPrefix(u, "http://api.local/checkout/paypal/execute?ref=") }),
		mock.MatchedBy(func(u string) bool { return strings.HasPrefix(u, "http://api.local/checkout/paypal/cancel?ref=") }),
	).Return("ORD1", "https://paypal.test/approve/ORD1", nil)
	f.pendings.On("Create", mock.Anything, mock.MatchedBy(func(p *model.PendingPayment) bool {
		return p.UserID == 1 &&
			p.Provider == model.ProviderPayPal &&
			p.ProviderRef == "ORD1" &&
			p.Amount == 22970 &&
			p.Status == model.PendingStatusAwaitingApproval &&
			p.Token != ""
	})).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.InitiatePayPal(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "https://paypal.test/approve/ORD1", out.RedirectURL)
	//initiateではカートを触らない
	f.cart.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
}

func TestInitiatePayPal_ApprovalLinkMissingLeavesCartUntouched(t *testing.T) {
	f := newCheckoutFixture()
	f.stubCart(1,
		[]model.CartItem{{ID: 100, UserID: 1, ProductID: 10, Quantity: 1}},
		map[int64]model.Product{10: {ID: 10, Name: "Tênis Casual", Price: 15990}})

	f.paypal.On("CreateOrder", mock.Anything, int64(15990), "BRL", mock.Anything, mock.Anything).
		Return("", "", gateway.ErrApprovalLinkMissing)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.InitiatePayPal(context.Background(), 1)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Status)
	f.cart.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
	f.pendings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInitiatePayPal_ProviderErrorSurfacesRawBody(t *testing.T) {
	f := newCheckoutFixture()
	f.stubCart(1,
		[]model.CartItem{{ID: 100, UserID: 1, ProductID: 10, Quantity: 1}},
		map[int64]model.Product{10: {ID: 10, Name: "Jaqueta Jeans", Price: 19990}})

	f.paypal.On("CreateOrder", mock.Anything, int64(19990), "BRL", mock.Anything, mock.Anything).
		Return("", "", &gateway.ProviderError{Op: gateway.OpCreateOrder, Status: 422, Body: `{"name":"UNPROCESSABLE_ENTITY"}`})
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.InitiatePayPal(context.Background(), 1)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Status)
	assert.Equal(t, `{"name":"UNPROCESSABLE_ENTITY"}`, he.Message)
}

func TestInitiatePayPal_CredentialsMissing(t *testing.T) {
	f := newCheckoutFixture()
	f.stubCart(1,
		[]model.CartItem{{ID: 100, UserID: 1, ProductID: 10, Quantity: 1}},
		map[int64]model.Product{10: {ID: 10, Price: 4990}})

	f.paypal.On("CreateOrder", mock.Anything, int64(4990), "BRL", mock.Anything, mock.Anything).
		Return("", "", gateway.ErrCredentialsMissing)

	_, err := f.uc.InitiatePayPal(context.Background(), 1)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "payment credentials missing", he.Message)
}

func TestInitiate_SingleFlightRejectsConcurrentCheckout(t *testing.T) {
	f := newCheckoutFixture()

	//1本目のCreateOrderを待たせて、その間に2本目を打つ
	firstInGateway := make(chan struct{})
	releaseFirst := make(chan struct{})

	f.stubCart(1,
		[]model.CartItem{{ID: 100, UserID: 1, ProductID: 10, Quantity: 1}},
		map[int64]model.Product{10: {ID: 10, Price: 4990}})
	f.paypal.On("CreateOrder", mock.Anything, int64(4990), "BRL", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(firstInGateway)
			<-releaseFirst
		}).
		Return("ORD1", "https://paypal.test/approve/ORD1", nil)
	f.pendings.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.uc.InitiatePayPal(context.Background(), 1)
	}()

	<-firstInGateway
	_, secondErr := f.uc.InitiatePayPal(context.Background(), 1)
	close(releaseFirst)
	wg.Wait()

	assert.NoError(t, firstErr)
	he, ok := AsHTTPError(secondErr)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Equal(t, "checkout already in progress", he.Message)
	//外部注文は1つしかできない
	f.paypal.AssertNumberOfCalls(t, "CreateOrder", 1)
}

// =====================
// Finalize
// =====================

func TestFinalizePayPal_NoPendingOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.pendings.On("FindByToken", mock.Anything, "unknown").Return(model.PendingPayment{}, repo.ErrNotFound)

	_, err := f.uc.FinalizePayPal(context.Background(), "unknown")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "no pending order", he.Message)
	f.paypal.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything)
}

func TestFinalizePayPal_ConsumedTokenIsNoPendingOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.pendings.On("FindByToken", mock.Anything, "tok").Return(model.PendingPayment{
		ID: 1, UserID: 1, Provider: model.ProviderPayPal, ProviderRef: "ORD1",
		Token: "tok", Status: model.PendingStatusCaptured,
	}, nil)

	_, err := f.uc.FinalizePayPal(context.Background(), "tok")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	f.paypal.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything)
}

func TestFinalizePayPal_HappyPathClearsCartAndCreatesOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.pendings.On("FindByToken", mock.Anything, "tok").Return(model.PendingPayment{
		ID: 1, UserID: 1, Provider: model.ProviderPayPal, ProviderRef: "ORD1",
		Token: "tok", Amount: 9980, Status: model.PendingStatusAwaitingApproval,
	}, nil)
	f.paypal.On("CaptureOrder", mock.Anything, "ORD1").Return(nil)

	f.stubCart(1,
		[]model.CartItem{{ID: 100, UserID: 1, ProductID: 10, Quantity: 2}},
		map[int64]model.Product{10: {ID: 10, Name: "Camiseta Básica", Price: 4990}})

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 &&
			o.Provider == model.ProviderPayPal &&
			o.ProviderRef == "ORD1" &&
			o.Status == model.OrderStatusPaid &&
			o.TotalPrice == 9980
	})).Return(int64(55), nil)
	f.items.On("CreateBulk", mock.Anything, int64(55), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].ProductNameSnapshot == "Camiseta Básica" &&
			items[0].UnitPriceSnapshot == 4990 &&
			items[0].Quantity == 2
	})).Return(nil)
	f.cart.On("ClearByUserID", mock.Anything, int64(1)).Return(nil)
	f.pendings.On("UpdateStatus", mock.Anything, int64(1), model.PendingStatusCaptured).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.FinalizePayPal(context.Background(), "tok")

	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.OrderID)
	f.cart.AssertCalled(t, "ClearByUserID", mock.Anything, int64(1))
}

func TestFinalizePayPal_OrderTotalUsesChargedAmount(t *testing.T) {
	f := newCheckoutFixture()
	//請求は9980で確定済み
	f.pendings.On("FindByToken", mock.Anything, "tok").Return(model.PendingPayment{
		ID: 1, UserID: 1, Provider: model.ProviderPayPal, ProviderRef: "ORD1",
		Token: "tok", Amount: 9980, Status: model.PendingStatusAwaitingApproval,
	}, nil)
	f.paypal.On("CaptureOrder", mock.Anything, "ORD1").Return(nil)

	//リダイレクト中にカートが増えている
	f.stubCart(1,
		[]model.CartItem{
			{ID: 100, UserID: 1, ProductID: 10, Quantity: 2},
			{ID: 102, UserID: 1, ProductID: 11, Quantity: 1},
		},
		map[int64]model.Product{
			10: {ID: 10, Name: "Camiseta Básica", Price: 4990},
			11: {ID: 11, Name: "Vestido Midi", Price: 12990},
		})

	//注文合計はカートの現在値ではなく請求額
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalPrice == 9980
	})).Return(int64(56), nil)
	f.items.On("CreateBulk", mock.Anything, int64(56), mock.Anything).Return(nil)
	f.cart.On("ClearByUserID", mock.Anything, int64(1)).Return(nil)
	f.pendings.On("UpdateStatus", mock.Anything, int64(1), model.PendingStatusCaptured).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.FinalizePayPal(context.Background(), "tok")

	assert.NoError(t, err)
	assert.Equal(t, int64(56), out.OrderID)
}

func TestFinalizePayPal_CaptureFailureKeepsPendingAndCart(t *testing.T) {
	f := newCheckoutFixture()
	f.pendings.On("FindByToken", mock.Anything, "tok").Return(model.PendingPayment{
		ID: 1, UserID: 1, Provider: model.ProviderPayPal, ProviderRef: "ORD1",
		Token: "tok", Status: model.PendingStatusAwaitingApproval,
	}, nil)
	f.paypal.On("CaptureOrder", mock.Anything, "ORD1").
		Return(&gateway.ProviderError{Op: gateway.OpCapture, Status: 422, Body: `{"name":"ORDER_NOT_APPROVED"}`})
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.FinalizePayPal(context.Background(), "tok")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Status)
	assert.Equal(t, `{"name":"ORDER_NOT_APPROVED"}`, he.Message)
	//失敗してもカートとpendingはそのまま（再試行できる）
	f.cart.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
	f.pendings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizeStripe_UnpaidSessionKeepsCart(t *testing.T) {
	f := newCheckoutFixture()
	f.pendings.On("FindByToken", mock.Anything, "tok").Return(model.PendingPayment{
		ID: 1, UserID: 1, Provider: model.ProviderStripe, ProviderRef: "cs_123",
		Token: "tok", Status: model.PendingStatusAwaitingApproval,
	}, nil)
	f.stripe.On("ConfirmSession", mock.Anything, "cs_123").Return(false, nil)

	_, err := f.uc.FinalizeStripe(context.Background(), "tok", "cs_123")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "payment not completed", he.Message)
	f.cart.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
}

func TestFinalizeStripe_SessionMismatchIsNoPendingOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.pendings.On("FindByToken", mock.Anything, "tok").Return(model.PendingPayment{
		ID: 1, UserID: 1, Provider: model.ProviderStripe, ProviderRef: "cs_123",
		Token: "tok", Status: model.PendingStatusAwaitingApproval,
	}, nil)

	_, err := f.uc.FinalizeStripe(context.Background(), "tok", "cs_other")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	f.stripe.AssertNotCalled(t, "ConfirmSession", mock.Anything, mock.Anything)
}

func TestFinalizeStripe_PaidSessionCompletes(t *testing.T) {
	f := newCheckoutFixture()
	f.pendings.On("FindByToken", mock.Anything, "tok").Return(model.PendingPayment{
		ID: 1, UserID: 1, Provider: model.ProviderStripe, ProviderRef: "cs_123",
		Token: "tok", Amount: 12990, Status: model.PendingStatusAwaitingApproval,
	}, nil)
	f.stripe.On("ConfirmSession", mock.Anything, "cs_123").Return(true, nil)

	f.stubCart(1,
		[]model.CartItem{{ID: 100, UserID: 1, ProductID: 10, Quantity: 1}},
		map[int64]model.Product{10: {ID: 10, Name: "Vestido Midi", Price: 12990}})
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(7), nil)
	f.items.On("CreateBulk", mock.Anything, int64(7), mock.Anything).Return(nil)
	f.cart.On("ClearByUserID", mock.Anything, int64(1)).Return(nil)
	f.pendings.On("UpdateStatus", mock.Anything, int64(1), model.PendingStatusCaptured).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.FinalizeStripe(context.Background(), "tok", "cs_123")

	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.OrderID)
}

// =====================
// History
// =====================

func TestCheckoutHistory(t *testing.T) {
	f := newCheckoutFixture()
	f.audit.On("ListByUserID", mock.Anything, int64(1), 50).Return([]model.AuditLog{
		{ActorUserID: 1, Action: model.AuditActionCheckoutCaptured, Provider: model.ProviderPayPal, Detail: "ORD1"},
		{ActorUserID: 1, Action: model.AuditActionCheckoutInitiated, Provider: model.ProviderPayPal, Detail: "ORD1"},
	}, nil)

	events, err := f.uc.History(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "CHECKOUT_CAPTURED", events[0].Action)
	assert.Equal(t, "PAYPAL", events[0].Provider)
}

func TestCheckoutHistory_Unauthorized(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.uc.History(context.Background(), 0)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	f.audit.AssertNotCalled(t, "ListByUserID", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// Cancel
// =====================

func TestCancelPayPal_MarksPendingCanceled(t *testing.T) {
	f := newCheckoutFixture()
	f.pendings.On("FindByToken", mock.Anything, "tok").Return(model.PendingPayment{
		ID: 1, UserID: 1, Provider: model.ProviderPayPal, ProviderRef: "ORD1",
		Token: "tok", Status: model.PendingStatusAwaitingApproval,
	}, nil)
	f.pendings.On("UpdateStatus", mock.Anything, int64(1), model.PendingStatusCanceled).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := f.uc.CancelPayPal(context.Background(), "tok")

	assert.NoError(t, err)
	f.cart.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
	f.pendings.AssertCalled(t, "UpdateStatus", mock.Anything, int64(1), model.PendingStatusCanceled)
}
