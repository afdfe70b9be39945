package complaint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/notification"
	"evmarket.io/marketplace-api/app/domain/order"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/idgen"
	"evmarket.io/marketplace-api/app/utils/logger"
)

// OrderReader checks the order a complaint refers to.
type OrderReader interface {
	FindByID(ctx context.Context, publicID string) (*order.Order, error)
}

type ComplaintService struct {
	repo     ComplaintRepository
	cache    *cache.CacheService
	orders   OrderReader
	notifier notification.Notifier
}

func NewService(repo ComplaintRepository, cacheService *cache.CacheService, orders OrderReader, notifier notification.Notifier) *ComplaintService {
	return &ComplaintService{
		repo:     repo,
		cache:    cacheService,
		orders:   orders,
		notifier: notifier,
	}
}

type CreateInput struct {
	OrderID     string
	Subject     string
	Description string
}

func (s *ComplaintService) Create(ctx context.Context, actor *user.User, input CreateInput) (*Complaint, error) {
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if subject == "" || description == "" {
		return nil, fmt.Errorf("subject and description are required: %w", common.ErrInvalidArgument)
	}
	if input.OrderID != "" {
		o, err := s.orders.FindByID(ctx, input.OrderID)
		if err != nil {
			return nil, err
		}
		if !actor.Can(o.BuyerID) && actor.PublicID != o.SellerID {
			return nil, fmt.Errorf("order %s: %w", input.OrderID, common.ErrForbidden)
		}
	}
	publicID, err := idgen.GenerateSecureID(idgen.PrefixComplaint, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &Complaint{
		PublicID:    publicID,
		UserID:      actor.PublicID,
		OrderID:     input.OrderID,
		Subject:     subject,
		Description: description,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}
	if err := s.invalidate(ctx, c.PublicID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ComplaintService) FindByID(ctx context.Context, actor *user.User, publicID string) (*Complaint, error) {
	c, err := cache.GetOrSet(ctx, s.cache, cache.Complaints.One(publicID), cache.TTLDefault, func(ctx context.Context) (*Complaint, error) {
		return s.repo.FindByPublicID(ctx, publicID)
	})
	if err != nil {
		return nil, err
	}
	if !actor.Can(c.UserID) {
		return nil, fmt.Errorf("complaint %s: %w", publicID, common.ErrForbidden)
	}
	return c, nil
}

func (s *ComplaintService) FindByUser(ctx context.Context, userID string) ([]*Complaint, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Complaints.By("user", userID), cache.TTLDefault, func(ctx context.Context) ([]*Complaint, error) {
		items, err := s.repo.FindByFilter(ctx, ComplaintFilter{UserID: &userID}, nil)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*Complaint{}
		}
		return items, nil
	})
}

// List is an admin view; q.Filter selects a status.
func (s *ComplaintService) List(ctx context.Context, actor *user.User, q query.ListQuery) (*query.Page[*Complaint], error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("complaints: %w", common.ErrForbidden)
	}
	key := cache.Complaints.Page(q.Page, q.Limit, q.Search, q.Filter)
	return cache.GetOrSet(ctx, s.cache, key, cache.TTLDefault, func(ctx context.Context) (*query.Page[*Complaint], error) {
		filter := ComplaintFilter{}
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

func (s *ComplaintService) UpdateStatus(ctx context.Context, actor *user.User, publicID string, next Status, resolution string) (*Complaint, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("complaint %s: %w", publicID, common.ErrForbidden)
	}
	if !next.Valid() {
		return nil, fmt.Errorf("status %q: %w", next, common.ErrInvalidArgument)
	}
	c, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if c.Status.Final() {
		return nil, fmt.Errorf("complaint %s is %s: %w", publicID, c.Status, common.ErrInvalidTransition)
	}
	c.Status = next
	if resolution != "" {
		c.Resolution = strings.TrimSpace(resolution)
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}
	if err := s.invalidate(ctx, publicID); err != nil {
		return nil, err
	}
	if next.Final() {
		s.notifyClosed(ctx, c)
	}
	return c, nil
}

func (s *ComplaintService) notifyClosed(ctx context.Context, c *Complaint) {
	if s.notifier == nil {
		return
	}
	message := fmt.Sprintf("Your complaint %q was %s.", c.Subject, c.Status)
	if c.Resolution != "" {
		message += " " + c.Resolution
	}
	_, err := s.notifier.Notify(ctx, notification.NotifyInput{
		UserID:  c.UserID,
		Type:    notification.TypeComplaint,
		Title:   "Complaint " + string(c.Status),
		Message: message,
		Email:   true,
	})
	if err != nil {
		logger.GetLogger().WithField("error_code", "9f4b2e6c-1a3d-4e8f-b5c7-0d2a6e4f8b13").
			Warnf("failed to notify %s about complaint: %v", c.UserID, err)
	}
}

func (s *ComplaintService) invalidate(ctx context.Context, publicID string) error {
	return s.cache.Invalidate(ctx, []cache.Key{cache.Complaints.One(publicID)}, cache.Complaints.All())
}
