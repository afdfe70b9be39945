package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/domain/notification"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/idgen"
	"evmarket.io/marketplace-api/app/utils/logger"
)

// ListingProvider is the part of the listing service orders depend on.
type ListingProvider interface {
	FindByID(ctx context.Context, publicID string) (*listing.Listing, error)
	MarkSold(ctx context.Context, publicID string) error
}

type OrderService struct {
	repo     OrderRepository
	cache    *cache.CacheService
	listings ListingProvider
	notifier notification.Notifier
}

func NewService(repo OrderRepository, cacheService *cache.CacheService, listings ListingProvider, notifier notification.Notifier) *OrderService {
	return &OrderService{
		repo:     repo,
		cache:    cacheService,
		listings: listings,
		notifier: notifier,
	}
}

type CreateInput struct {
	ListingID       string
	ShippingAddress string
	Note            string
}

func (s *OrderService) Create(ctx context.Context, buyer *user.User, input CreateInput) (*Order, error) {
	l, err := s.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if l.Status != listing.StatusActive {
		return nil, fmt.Errorf("listing %s is %s: %w", l.PublicID, l.Status, common.ErrConflict)
	}
	if l.SellerID == buyer.PublicID {
		return nil, fmt.Errorf("cannot buy your own listing: %w", common.ErrInvalidArgument)
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, fmt.Errorf("shipping address is required: %w", common.ErrInvalidArgument)
	}
	publicID, err := idgen.GenerateSecureID(idgen.PrefixOrder, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	o := &Order{
		PublicID:        publicID,
		BuyerID:         buyer.PublicID,
		SellerID:        l.SellerID,
		ListingID:       l.PublicID,
		Amount:          l.Price,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		Note:            input.Note,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err := s.invalidate(ctx, o.PublicID); err != nil {
		return nil, err
	}
	s.notify(ctx, o.SellerID, "New order", fmt.Sprintf("Order %s was placed for listing %s.", o.PublicID, o.ListingID))
	return o, nil
}

func (s *OrderService) FindByID(ctx context.Context, publicID string) (*Order, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Orders.One(publicID), cache.TTLDefault, func(ctx context.Context) (*Order, error) {
		return s.repo.FindByPublicID(ctx, publicID)
	})
}

// FindVisible returns the order when actor is its buyer, its seller or an admin.
func (s *OrderService) FindVisible(ctx context.Context, actor *user.User, publicID string) (*Order, error) {
	o, err := s.FindByID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(o.BuyerID) && actor.PublicID != o.SellerID {
		return nil, fmt.Errorf("order %s: %w", publicID, common.ErrForbidden)
	}
	return o, nil
}

func (s *OrderService) FindByUser(ctx context.Context, buyerID string) ([]*Order, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Orders.By("user", buyerID), cache.TTLDefault, func(ctx context.Context) ([]*Order, error) {
		return s.findAll(ctx, OrderFilter{BuyerID: &buyerID})
	})
}

func (s *OrderService) FindBySeller(ctx context.Context, sellerID string) ([]*Order, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Orders.By("seller", sellerID), cache.TTLDefault, func(ctx context.Context) ([]*Order, error) {
		return s.findAll(ctx, OrderFilter{SellerID: &sellerID})
	})
}

// List pages through every order; q.Filter selects a status.
func (s *OrderService) List(ctx context.Context, q query.ListQuery) (*query.Page[*Order], error) {
	key := cache.Orders.Page(q.Page, q.Limit, q.Search, q.Filter)
	return cache.GetOrSet(ctx, s.cache, key, cache.TTLDefault, func(ctx context.Context) (*query.Page[*Order], error) {
		filter := OrderFilter{}
		if q.Filter != "" {
			status := Status(q.Filter)
			filter.Status = &status
		}
		items, err := s.repo.FindByFilter(ctx, filter, &q.Pagination)
		if err != nil {
			return nil, err
		}
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		return query.NewPage(items, total, q.Pagination), nil
	})
}

// UpdateStatus moves the order along the state machine. Sellers drive
// confirmed -> shipped -> completed; admins may make any allowed move.
func (s *OrderService) UpdateStatus(ctx context.Context, actor *user.User, publicID string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("status %q: %w", next, common.ErrInvalidArgument)
	}
	o, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(o.SellerID) {
		return nil, fmt.Errorf("order %s: %w", publicID, common.ErrForbidden)
	}
	return s.transition(ctx, o, next)
}

// CancelOrder is open to the buyer, the seller and admins.
func (s *OrderService) CancelOrder(ctx context.Context, actor *user.User, publicID string) (*Order, error) {
	o, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(o.BuyerID) && actor.PublicID != o.SellerID {
		return nil, fmt.Errorf("order %s: %w", publicID, common.ErrForbidden)
	}
	return s.transition(ctx, o, StatusCancelled)
}

// ConfirmPaid is called by the payment flow once the gateway reports success.
// An order that is already confirmed is left as is.
func (s *OrderService) ConfirmPaid(ctx context.Context, publicID string) (*Order, error) {
	o, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusConfirmed {
		return o, nil
	}
	return s.transition(ctx, o, StatusConfirmed)
}

func (s *OrderService) transition(ctx context.Context, o *Order, next Status) (*Order, error) {
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("order %s %s -> %s: %w", o.PublicID, o.Status, next, common.ErrInvalidTransition)
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if err := s.invalidate(ctx, o.PublicID); err != nil {
		return nil, err
	}
	if next == StatusCompleted {
		if err := s.listings.MarkSold(ctx, o.ListingID); err != nil {
			return nil, err
		}
	}
	s.notify(ctx, o.BuyerID, "Order "+string(next), fmt.Sprintf("Order %s is now %s.", o.PublicID, next))
	return o, nil
}

func (s *OrderService) findAll(ctx context.Context, filter OrderFilter) ([]*Order, error) {
	items, err := s.repo.FindByFilter(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Order{}
	}
	return items, nil
}

func (s *OrderService) notify(ctx context.Context, userID string, title string, message string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Notify(ctx, notification.NotifyInput{
		UserID:  userID,
		Type:    notification.TypeOrder,
		Title:   title,
		Message: message,
		Email:   true,
	})
	if err != nil {
		logger.GetLogger().WithField("error_code", "0b9e4c1a-6f3d-4e27-8a5b-9c2d1e0f7a36").
			Warnf("failed to notify %s about order: %v", userID, err)
	}
}

// invalidate drops order_<id> and every orders_* view in one concurrent pass.
func (s *OrderService) invalidate(ctx context.Context, publicID string) error {
	return s.cache.Invalidate(ctx, []cache.Key{cache.Orders.One(publicID)}, cache.Orders.All())
}
