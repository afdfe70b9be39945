package booking

import (
	"context"
	"time"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2) intersect.
// Touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Slot is a window in which buyers may book test drives of one listing.
type Slot struct {
	ID          uint      `json:"id"`
	PublicID    string    `json:"public_id"`
	SellerID    string    `json:"seller_id"`
	ListingID   string    `json:"listing_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxBookings int       `json:"max_bookings"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Slot) Contains(start, end time.Time) bool {
	return !start.Before(s.StartTime) && !end.After(s.EndTime)
}

type Booking struct {
	ID        uint      `json:"id"`
	PublicID  string    `json:"public_id"`
	SlotID    string    `json:"slot_id"`
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    Status    `json:"status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SlotFilter struct {
	PublicID  *string
	SellerID  *string
	ListingID *string
	Active    *bool
	EndsAfter *time.Time
}

type BookingFilter struct {
	PublicID    *string
	SlotID      *string
	UserID      *string
	Status      *Status
	EndedBefore *time.Time
}

type SlotRepository interface {
	Create(ctx context.Context, s *Slot) error
	Update(ctx context.Context, s *Slot) error
	FindByPublicID(ctx context.Context, publicID string) (*Slot, error)
	FindByFilter(ctx context.Context, filter SlotFilter) ([]*Slot, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	FindByPublicID(ctx context.Context, publicID string) (*Booking, error)
	FindByFilter(ctx context.Context, filter BookingFilter) ([]*Booking, error)
}
