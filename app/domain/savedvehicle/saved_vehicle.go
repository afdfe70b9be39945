package savedvehicle

import (
	"context"
	"time"
)

type SavedVehicle struct {
	ID        uint      `json:"id"`
	PublicID  string    `json:"public_id"`
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

type SavedVehicleRepository interface {
	Create(ctx context.Context, v *SavedVehicle) error
	Delete(ctx context.Context, userID string, listingID string) (bool, error)
	Find(ctx context.Context, userID string, listingID string) (*SavedVehicle, error)
	FindByUser(ctx context.Context, userID string) ([]*SavedVehicle, error)
}
