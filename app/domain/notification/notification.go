package notification

import (
	"context"
	"time"

	"evmarket.io/marketplace-api/app/domain/query"
)

type Type string

const (
	TypeOrder     Type = "order"
	TypePayment   Type = "payment"
	TypeBooking   Type = "booking"
	TypeComplaint Type = "complaint"
	TypeSystem    Type = "system"
)

type Notification struct {
	ID        uint      `json:"id"`
	PublicID  string    `json:"public_id"`
	UserID    string    `json:"user_id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationFilter struct {
	PublicID *string
	UserID   *string
	Read     *bool
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	Update(ctx context.Context, n *Notification) error
	DeleteByID(ctx context.Context, id uint) error
	FindByPublicID(ctx context.Context, publicID string) (*Notification, error)
	FindByFilter(ctx context.Context, filter NotificationFilter, p *query.Pagination) ([]*Notification, error)
	Count(ctx context.Context, filter NotificationFilter) (int64, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
}

// NotifyInput describes one notification. Email also sends it to the user's address.
type NotifyInput struct {
	UserID  string
	Type    Type
	Title   string
	Message string
	Email   bool
}

// Notifier is what other services need to reach a user.
type Notifier interface {
	Notify(ctx context.Context, input NotifyInput) (*Notification, error)
}
