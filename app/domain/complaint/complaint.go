package complaint

import (
	"context"
	"time"

	"evmarket.io/marketplace-api/app/domain/query"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Final reports whether no further status change is allowed.
func (s Status) Final() bool {
	return s == StatusResolved || s == StatusRejected
}

type Complaint struct {
	ID          uint      `json:"id"`
	PublicID    string    `json:"public_id"`
	UserID      string    `json:"user_id"`
	OrderID     string    `json:"order_id,omitempty"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Resolution  string    `json:"resolution"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ComplaintFilter struct {
	PublicID *string
	UserID   *string
	OrderID  *string
	Status   *Status
}

type ComplaintRepository interface {
	Create(ctx context.Context, c *Complaint) error
	Update(ctx context.Context, c *Complaint) error
	FindByPublicID(ctx context.Context, publicID string) (*Complaint, error)
	FindByFilter(ctx context.Context, filter ComplaintFilter, p *query.Pagination) ([]*Complaint, error)
	Count(ctx context.Context, filter ComplaintFilter) (int64, error)
}
