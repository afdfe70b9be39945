package payment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/notification"
	"evmarket.io/marketplace-api/app/domain/order"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/httpclients/paymentgateway"
	"evmarket.io/marketplace-api/config/environment_variables"
	"github.com/shopspring/decimal"
)

const testSecret = "s3cret"

type fakePaymentRepo struct {
	mu   sync.Mutex
	rows map[string]Payment
}

func (r *fakePaymentRepo) Create(_ context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uint(len(r.rows) + 1)
	r.rows[p.PublicID] = *p
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.PublicID] = *p
	return nil
}

func (r *fakePaymentRepo) FindByPublicID(_ context.Context, publicID string) (*Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[publicID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (r *fakePaymentRepo) FindByGatewayRef(_ context.Context, ref string) (*Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.GatewayRef == ref {
			p := p
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakePaymentRepo) FindByFilter(_ context.Context, filter PaymentFilter, _ *query.Pagination) ([]*Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Payment
	for _, p := range r.rows {
		if filter.OrderID != nil && p.OrderID != *filter.OrderID {
			continue
		}
		if filter.UserID != nil && p.UserID != *filter.UserID {
			continue
		}
		p := p
		out = append(out, &p)
	}
	return out, nil
}

type fakeOrders struct {
	orders      map[string]*order.Order
	confirmed   []string
	failConfirm error
}

func (f *fakeOrders) FindByID(_ context.Context, publicID string) (*order.Order, error) {
	o, ok := f.orders[publicID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return o, nil
}

// ConfirmPaid records only real transitions, like the order service.
func (f *fakeOrders) ConfirmPaid(_ context.Context, publicID string) (*order.Order, error) {
	if f.failConfirm != nil {
		return nil, f.failConfirm
	}
	o := f.orders[publicID]
	if o.Status != order.StatusConfirmed {
		f.confirmed = append(f.confirmed, publicID)
		o.Status = order.StatusConfirmed
	}
	return o, nil
}

type fakeGateway struct {
	keys     []string
	refunded []string
}

func (g *fakeGateway) CreatePayment(_ context.Context, idempotencyKey string, request paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
	g.keys = append(g.keys, idempotencyKey)
	return &paymentgateway.CreatePaymentResponse{ID: "gw_" + request.Reference, Status: "pending", CheckoutURL: "https://pay.example/" + request.Reference}, nil
}

func (g *fakeGateway) Refund(_ context.Context, gatewayRef string) (*paymentgateway.RefundResponse, error) {
	g.refunded = append(g.refunded, gatewayRef)
	return &paymentgateway.RefundResponse{ID: "rf_1", Status: "refunded"}, nil
}

type countingNotifier struct {
	n int
}

func (c *countingNotifier) Notify(_ context.Context, input notification.NotifyInput) (*notification.Notification, error) {
	c.n++
	return &notification.Notification{UserID: input.UserID}, nil
}

var (
	buyer = &user.User{PublicID: "usr_buyer", Role: user.RoleBuyer}
	admin = &user.User{PublicID: "usr_admin", Role: user.RoleAdmin}
)

type fixture struct {
	svc      *PaymentService
	repo     *fakePaymentRepo
	orders   *fakeOrders
	gateway  *fakeGateway
	notifier *countingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	previous := environment_variables.EnvironmentVariables.PAYMENT_CALLBACK_SECRET
	environment_variables.EnvironmentVariables.PAYMENT_CALLBACK_SECRET = testSecret
	t.Cleanup(func() {
		environment_variables.EnvironmentVariables.PAYMENT_CALLBACK_SECRET = previous
	})
	store, err := cache.NewMemoryStore(cache.DefaultMemoryStoreConfig())
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		repo: &fakePaymentRepo{rows: map[string]Payment{}},
		orders: &fakeOrders{orders: map[string]*order.Order{
			"ord_1": {PublicID: "ord_1", BuyerID: buyer.PublicID, SellerID: "usr_seller", Amount: decimal.NewFromInt(30000), Status: order.StatusPending},
		}},
		gateway:  &fakeGateway{},
		notifier: &countingNotifier{},
	}
	f.svc = NewService(f.repo, cache.NewCacheService(cache.Options{Store: store}), f.orders, f.gateway, f.notifier)
	return f
}

func (f *fixture) pay(t *testing.T) *Payment {
	t.Helper()
	p, err := f.svc.CreatePayment(context.Background(), buyer, "ord_1", "")
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	return p
}

func TestCreatePayment(t *testing.T) {
	f := newFixture(t)
	p := f.pay(t)
	if p.Method != MethodCard || p.Status != StatusPending {
		t.Errorf("unexpected payment %+v", p)
	}
	if !p.Amount.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("Amount = %s", p.Amount)
	}
	if p.GatewayRef != "gw_"+p.PublicID || p.CheckoutURL == "" {
		t.Errorf("gateway fields not stored: %+v", p)
	}
	if len(f.gateway.keys) != 1 || f.gateway.keys[0] == "" {
		t.Errorf("idempotency keys = %v", f.gateway.keys)
	}
}

func TestCreatePaymentRejectsOtherUsersOrder(t *testing.T) {
	f := newFixture(t)
	stranger := &user.User{PublicID: "usr_x", Role: user.RoleBuyer}
	if _, err := f.svc.CreatePayment(context.Background(), stranger, "ord_1", MethodWallet); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("err = %v, want forbidden", err)
	}
	if _, err := f.svc.CreatePayment(context.Background(), buyer, "ord_1", "cash"); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("err = %v, want invalid argument", err)
	}
}

func TestCallbackRequiresSecret(t *testing.T) {
	f := newFixture(t)
	p := f.pay(t)
	_, err := f.svc.HandleCallback(context.Background(), Callback{GatewayRef: p.GatewayRef, Status: StatusSucceeded, Secret: "wrong"})
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if len(f.orders.confirmed) != 0 {
		t.Error("order confirmed without a valid secret")
	}
}

func TestCallbackSuccessConfirmsOrderOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.pay(t)
	cb := Callback{GatewayRef: p.GatewayRef, Status: StatusSucceeded, Secret: testSecret}
	for i := 0; i < 2; i++ {
		got, err := f.svc.HandleCallback(ctx, cb)
		if err != nil {
			t.Fatalf("callback %d: %v", i, err)
		}
		if got.Status != StatusSucceeded {
			t.Errorf("status = %s", got.Status)
		}
	}
	if len(f.orders.confirmed) != 1 {
		t.Errorf("ConfirmPaid called %d times, want 1", len(f.orders.confirmed))
	}
	if f.notifier.n != 1 {
		t.Errorf("notifications = %d, want 1", f.notifier.n)
	}
	cached, err := f.svc.FindByID(ctx, p.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if cached.Status != StatusSucceeded {
		t.Errorf("FindByID status = %s", cached.Status)
	}
}

func TestRetriedSuccessCallbackConfirmsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.pay(t)
	cb := Callback{GatewayRef: p.GatewayRef, Status: StatusSucceeded, Secret: testSecret}

	f.orders.failConfirm = errors.New("orders unavailable")
	if _, err := f.svc.HandleCallback(ctx, cb); err == nil {
		t.Fatal("expected the confirmation failure to be returned")
	}
	if f.orders.orders["ord_1"].Status != order.StatusPending {
		t.Fatalf("order status = %s before retry", f.orders.orders["ord_1"].Status)
	}

	f.orders.failConfirm = nil
	got, err := f.svc.HandleCallback(ctx, cb)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got.Status != StatusSucceeded {
		t.Errorf("payment status = %s", got.Status)
	}
	if f.orders.orders["ord_1"].Status != order.StatusConfirmed {
		t.Errorf("order status = %s, want confirmed", f.orders.orders["ord_1"].Status)
	}
	if len(f.orders.confirmed) != 1 {
		t.Errorf("confirmations = %d, want 1", len(f.orders.confirmed))
	}
}

func TestCallbackCannotReopenFailedPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.pay(t)
	if _, err := f.svc.HandleCallback(ctx, Callback{GatewayRef: p.GatewayRef, Status: StatusFailed, Secret: testSecret}); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.HandleCallback(ctx, Callback{GatewayRef: p.GatewayRef, Status: StatusSucceeded, Secret: testSecret})
	if !errors.Is(err, common.ErrInvalidTransition) {
		t.Errorf("err = %v, want invalid transition", err)
	}
	if _, err := f.svc.HandleCallback(ctx, Callback{GatewayRef: p.GatewayRef, Status: StatusRefunded, Secret: testSecret}); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("refunded via callback err = %v", err)
	}
}

func TestRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.pay(t)
	if _, err := f.svc.Refund(ctx, admin, p.PublicID); !errors.Is(err, common.ErrInvalidTransition) {
		t.Fatalf("refund of pending payment err = %v", err)
	}
	if _, err := f.svc.HandleCallback(ctx, Callback{GatewayRef: p.GatewayRef, Status: StatusSucceeded, Secret: testSecret}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Refund(ctx, buyer, p.PublicID); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("buyer refund err = %v", err)
	}
	got, err := f.svc.Refund(ctx, admin, p.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusRefunded || len(f.gateway.refunded) != 1 {
		t.Errorf("status = %s, gateway refunds = %v", got.Status, f.gateway.refunded)
	}
}

func TestFindByOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	empty, err := f.svc.FindByOrder(ctx, "ord_1")
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("got %#v, want empty slice", empty)
	}
	f.pay(t)
	items, err := f.svc.FindByOrder(ctx, "ord_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("len = %d, want 1", len(items))
	}
}
