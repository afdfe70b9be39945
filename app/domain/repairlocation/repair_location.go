package repairlocation

import (
	"context"
	"time"

	"evmarket.io/marketplace-api/app/domain/query"
)

type RepairLocation struct {
	ID           uint      `json:"id"`
	PublicID     string    `json:"public_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Phone        string    `json:"phone"`
	Services     []string  `json:"services"`
	OpeningHours string    `json:"opening_hours"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RepairLocationFilter struct {
	PublicID *string
	City     *string
	Search   *string
}

type RepairLocationRepository interface {
	Create(ctx context.Context, l *RepairLocation) error
	Update(ctx context.Context, l *RepairLocation) error
	DeleteByID(ctx context.Context, id uint) error
	FindByPublicID(ctx context.Context, publicID string) (*RepairLocation, error)
	FindByFilter(ctx context.Context, filter RepairLocationFilter, p *query.Pagination) ([]*RepairLocation, error)
	Count(ctx context.Context, filter RepairLocationFilter) (int64, error)
}
