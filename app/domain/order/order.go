package order

import (
	"context"
	"time"

	"evmarket.io/marketplace-api/app/domain/query"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uint            `json:"id"`
	PublicID        string          `json:"public_id"`
	BuyerID         string          `json:"buyer_id"`
	SellerID        string          `json:"seller_id"`
	ListingID       string          `json:"listing_id"`
	Amount          decimal.Decimal `json:"amount"`
	ShippingAddress string          `json:"shipping_address"`
	Note            string          `json:"note"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderFilter struct {
	PublicID  *string
	BuyerID   *string
	SellerID  *string
	ListingID *string
	Status    *Status
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	FindByPublicID(ctx context.Context, publicID string) (*Order, error)
	FindByFilter(ctx context.Context, filter OrderFilter, p *query.Pagination) ([]*Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
}
