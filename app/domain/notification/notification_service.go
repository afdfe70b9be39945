package notification

import (
	"context"
	"fmt"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/emailservice"
	"evmarket.io/marketplace-api/app/utils/idgen"
	"evmarket.io/marketplace-api/app/utils/logger"
	"github.com/sirupsen/logrus"
)

// UserLookup resolves the email address of a recipient.
type UserLookup interface {
	FindByPublicID(ctx context.Context, publicID string) (*user.User, error)
}

type NotificationService struct {
	repo   NotificationRepository
	cache  *cache.CacheService
	users  UserLookup
	mailer emailservice.Sender
}

func NewService(repo NotificationRepository, cacheService *cache.CacheService, users UserLookup, mailer emailservice.Sender) *NotificationService {
	return &NotificationService{
		repo:   repo,
		cache:  cacheService,
		users:  users,
		mailer: mailer,
	}
}

func (s *NotificationService) Notify(ctx context.Context, input NotifyInput) (*Notification, error) {
	if input.UserID == "" || input.Title == "" {
		return nil, fmt.Errorf("notification needs a user and a title: %w", common.ErrInvalidArgument)
	}
	if input.Type == "" {
		input.Type = TypeSystem
	}
	publicID, err := idgen.GenerateSecureID(idgen.PrefixNotification, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	n := &Notification{
		PublicID:  publicID,
		UserID:    input.UserID,
		Type:      input.Type,
		Title:     input.Title,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	if err := s.invalidate(ctx, n.PublicID); err != nil {
		return nil, err
	}
	if input.Email {
		s.sendEmail(ctx, n)
	}
	return n, nil
}

// sendEmail is best effort. The in-app notification is already stored.
func (s *NotificationService) sendEmail(ctx context.Context, n *Notification) {
	if s.mailer == nil || s.users == nil {
		return
	}
	u, err := s.users.FindByPublicID(ctx, n.UserID)
	if err != nil {
		logger.GetLogger().WithFields(logrus.Fields{
			"error_code": "c41d7f02-2a8e-4a3b-9b5c-0e6f8d1a2b73",
			"user_id":    n.UserID,
		}).Warnf("failed to look up notification recipient: %v", err)
		return
	}
	if err := s.mailer.SendEmail(u.Email, n.Title, n.Message); err != nil {
		logger.GetLogger().WithFields(logrus.Fields{
			"error_code": "5e0a9c3d-7b1f-4d62-8e4a-1f2c3b4d5e6f",
			"user_id":    n.UserID,
		}).Warnf("failed to send notification email: %v", err)
	}
}

// InboxLimit caps FindByUser. Older notifications still count towards
// CountUnread and are cleared by MarkAllAsRead.
const InboxLimit = query.MaxLimit

// FindByUser returns the user's newest InboxLimit notifications, newest first.
func (s *NotificationService) FindByUser(ctx context.Context, userID string) ([]*Notification, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Notifications.By("user", userID), cache.TTLShort, func(ctx context.Context) ([]*Notification, error) {
		p := query.NewPagination(1, InboxLimit)
		items, err := s.repo.FindByFilter(ctx, NotificationFilter{UserID: &userID}, &p)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*Notification{}
		}
		return items, nil
	})
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Notifications.By("unread", userID), cache.TTLShort, func(ctx context.Context) (int64, error) {
		unread := false
		return s.repo.Count(ctx, NotificationFilter{UserID: &userID, Read: &unread})
	})
}

func (s *NotificationService) MarkAsRead(ctx context.Context, actor *user.User, publicID string) (*Notification, error) {
	n, err := s.owned(ctx, actor, publicID)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	if err := s.invalidate(ctx, publicID); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to update notifications: %w", err)
	}
	if err := s.cache.Invalidate(ctx, nil, cache.Notifications.All()); err != nil {
		return n, err
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, actor *user.User, publicID string) error {
	n, err := s.owned(ctx, actor, publicID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, n.ID); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return s.invalidate(ctx, publicID)
}

func (s *NotificationService) owned(ctx context.Context, actor *user.User, publicID string) (*Notification, error) {
	n, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(n.UserID) {
		return nil, fmt.Errorf("notification %s: %w", publicID, common.ErrForbidden)
	}
	return n, nil
}

func (s *NotificationService) invalidate(ctx context.Context, publicID string) error {
	return s.cache.Invalidate(ctx, []cache.Key{cache.Notifications.One(publicID)}, cache.Notifications.All())
}
