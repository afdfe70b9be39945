package payment

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/notification"
	"evmarket.io/marketplace-api/app/domain/order"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/httpclients/paymentgateway"
	"evmarket.io/marketplace-api/app/utils/idgen"
	"evmarket.io/marketplace-api/app/utils/logger"
	"evmarket.io/marketplace-api/config/environment_variables"
	"github.com/google/uuid"
)

const defaultCurrency = "USD"

// Gateway is the external payment processor.
type Gateway interface {
	CreatePayment(ctx context.Context, idempotencyKey string, request paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error)
	Refund(ctx context.Context, gatewayRef string) (*paymentgateway.RefundResponse, error)
}

// OrderProvider is the part of the order service payments depend on.
type OrderProvider interface {
	FindByID(ctx context.Context, publicID string) (*order.Order, error)
	ConfirmPaid(ctx context.Context, publicID string) (*order.Order, error)
}

type PaymentService struct {
	repo           PaymentRepository
	cache          *cache.CacheService
	orders         OrderProvider
	gateway        Gateway
	notifier       notification.Notifier
	callbackSecret string
}

func NewService(repo PaymentRepository, cacheService *cache.CacheService, orders OrderProvider, gateway Gateway, notifier notification.Notifier) *PaymentService {
	return &PaymentService{
		repo:           repo,
		cache:          cacheService,
		orders:         orders,
		gateway:        gateway,
		notifier:       notifier,
		callbackSecret: environment_variables.EnvironmentVariables.PAYMENT_CALLBACK_SECRET,
	}
}

func (s *PaymentService) CreatePayment(ctx context.Context, payer *user.User, orderID string, method Method) (*Payment, error) {
	if method == "" {
		method = MethodCard
	}
	if !method.Valid() {
		return nil, fmt.Errorf("payment method %q: %w", method, common.ErrInvalidArgument)
	}
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != payer.PublicID {
		return nil, fmt.Errorf("order %s: %w", orderID, common.ErrForbidden)
	}
	if o.Status != order.StatusPending {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, o.Status, common.ErrConflict)
	}

	publicID, err := idgen.GenerateSecureID(idgen.PrefixPayment, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	resp, err := s.gateway.CreatePayment(ctx, uuid.NewString(), paymentgateway.CreatePaymentRequest{
		Reference:   publicID,
		Amount:      o.Amount,
		Currency:    defaultCurrency,
		Method:      string(method),
		Description: "Order " + o.PublicID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Payment{
		PublicID:    publicID,
		OrderID:     o.PublicID,
		UserID:      payer.PublicID,
		Amount:      o.Amount,
		Method:      method,
		Status:      StatusPending,
		GatewayRef:  resp.ID,
		CheckoutURL: resp.CheckoutURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	if err := s.invalidate(ctx, p.PublicID); err != nil {
		return nil, err
	}
	return p, nil
}

type Callback struct {
	GatewayRef string
	Status     Status
	Secret     string
}

// HandleCallback applies a gateway status report. Repeated reports of the
// same status are accepted and change nothing, except that a repeated success
// retries the order confirmation in case the first attempt failed.
func (s *PaymentService) HandleCallback(ctx context.Context, cb Callback) (*Payment, error) {
	if s.callbackSecret == "" || subtle.ConstantTimeCompare([]byte(cb.Secret), []byte(s.callbackSecret)) != 1 {
		return nil, fmt.Errorf("invalid callback secret: %w", common.ErrForbidden)
	}
	if cb.Status != StatusSucceeded && cb.Status != StatusFailed {
		return nil, fmt.Errorf("callback status %q: %w", cb.Status, common.ErrInvalidArgument)
	}
	p, err := s.repo.FindByGatewayRef(ctx, cb.GatewayRef)
	if err != nil {
		return nil, err
	}
	if p.Status == cb.Status {
		if p.Status == StatusSucceeded {
			if err := s.confirmOrder(ctx, p); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	if p.Status != StatusPending {
		return nil, fmt.Errorf("payment %s %s -> %s: %w", p.PublicID, p.Status, cb.Status, common.ErrInvalidTransition)
	}
	p.Status = cb.Status
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	if err := s.invalidate(ctx, p.PublicID); err != nil {
		return nil, err
	}
	if p.Status == StatusSucceeded {
		if err := s.confirmOrder(ctx, p); err != nil {
			return nil, err
		}
	}
	s.notify(ctx, p)
	return p, nil
}

// confirmOrder is safe to repeat: ConfirmPaid is a no-op on confirmed orders
// and orders that moved past confirmation report an invalid transition.
func (s *PaymentService) confirmOrder(ctx context.Context, p *Payment) error {
	if _, err := s.orders.ConfirmPaid(ctx, p.OrderID); err != nil && !errors.Is(err, common.ErrInvalidTransition) {
		return err
	}
	return nil
}

func (s *PaymentService) Refund(ctx context.Context, actor *user.User, publicID string) (*Payment, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("refund: %w", common.ErrForbidden)
	}
	p, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusSucceeded {
		return nil, fmt.Errorf("payment %s %s -> %s: %w", p.PublicID, p.Status, StatusRefunded, common.ErrInvalidTransition)
	}
	if _, err := s.gateway.Refund(ctx, p.GatewayRef); err != nil {
		return nil, err
	}
	p.Status = StatusRefunded
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	if err := s.invalidate(ctx, p.PublicID); err != nil {
		return nil, err
	}
	s.notify(ctx, p)
	return p, nil
}

func (s *PaymentService) FindByID(ctx context.Context, publicID string) (*Payment, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Payments.One(publicID), cache.TTLDefault, func(ctx context.Context) (*Payment, error) {
		return s.repo.FindByPublicID(ctx, publicID)
	})
}

// FindVisible returns the payment when actor made it or is an admin.
func (s *PaymentService) FindVisible(ctx context.Context, actor *user.User, publicID string) (*Payment, error) {
	p, err := s.FindByID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(p.UserID) {
		return nil, fmt.Errorf("payment %s: %w", publicID, common.ErrForbidden)
	}
	return p, nil
}

func (s *PaymentService) FindByOrder(ctx context.Context, orderID string) ([]*Payment, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Payments.By("order", orderID), cache.TTLDefault, func(ctx context.Context) ([]*Payment, error) {
		return s.findAll(ctx, PaymentFilter{OrderID: &orderID})
	})
}

func (s *PaymentService) FindByUser(ctx context.Context, userID string) ([]*Payment, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Payments.By("user", userID), cache.TTLDefault, func(ctx context.Context) ([]*Payment, error) {
		return s.findAll(ctx, PaymentFilter{UserID: &userID})
	})
}

func (s *PaymentService) findAll(ctx context.Context, filter PaymentFilter) ([]*Payment, error) {
	items, err := s.repo.FindByFilter(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Payment{}
	}
	return items, nil
}

func (s *PaymentService) notify(ctx context.Context, p *Payment) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Notify(ctx, notification.NotifyInput{
		UserID:  p.UserID,
		Type:    notification.TypePayment,
		Title:   "Payment " + string(p.Status),
		Message: fmt.Sprintf("Payment %s for order %s is %s.", p.PublicID, p.OrderID, p.Status),
		Email:   true,
	})
	if err != nil {
		logger.GetLogger().WithField("error_code", "6a2f0d8b-3c4e-4f51-9a7d-2b8e1c0f5d94").
			Warnf("failed to notify %s about payment: %v", p.UserID, err)
	}
}

func (s *PaymentService) invalidate(ctx context.Context, publicID string) error {
	return s.cache.Invalidate(ctx, []cache.Key{cache.Payments.One(publicID)}, cache.Payments.All())
}
