package listing

import (
	"context"
	"time"

	"evmarket.io/marketplace-api/app/domain/query"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusSold     Status = "sold"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusInactive:
		return true
	}
	return false
}

type Listing struct {
	ID                 uint            `json:"id"`
	PublicID           string          `json:"public_id"`
	SellerID           string          `json:"seller_id"`
	Title              string          `json:"title"`
	Brand              string          `json:"brand"`
	Model              string          `json:"model"`
	Year               int             `json:"year"`
	Price              decimal.Decimal `json:"price"`
	BatteryCapacityKWh float64         `json:"battery_capacity_kwh"`
	BatteryHealth      float64         `json:"battery_health"`
	RangeKm            int             `json:"range_km"`
	MileageKm          int             `json:"mileage_km"`
	Location           string          `json:"location"`
	Description        string          `json:"description"`
	Images             []string        `json:"images"`
	Status             Status          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type ListingFilter struct {
	PublicID *string
	SellerID *string
	Status   *Status
	Brand    *string
	Search   *string
}

type ListingRepository interface {
	Create(ctx context.Context, l *Listing) error
	Update(ctx context.Context, l *Listing) error
	DeleteByID(ctx context.Context, id uint) error
	FindByPublicID(ctx context.Context, publicID string) (*Listing, error)
	FindByFilter(ctx context.Context, filter ListingFilter, p *query.Pagination) ([]*Listing, error)
	Count(ctx context.Context, filter ListingFilter) (int64, error)
}
