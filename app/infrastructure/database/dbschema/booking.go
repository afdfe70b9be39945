package dbschema

import (
	"time"

	"evmarket.io/marketplace-api/app/domain/booking"
	"evmarket.io/marketplace-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(TestDriveSlot{})
	database.RegisterSchemaForAutoMigrate(TestDriveBooking{})
}

type TestDriveSlot struct {
	BaseModel
	PublicID    string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	SellerID    string    `gorm:"type:varchar(50);not null;index:idx_slot_seller_listing"`
	ListingID   string    `gorm:"type:varchar(50);not null;index:idx_slot_seller_listing"`
	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time `gorm:"not null;index"`
	MaxBookings int       `gorm:"not null;default:1"`
	Active      bool      `gorm:"not null;index"`
}

func NewSchemaTestDriveSlot(s *booking.Slot) *TestDriveSlot {
	return &TestDriveSlot{
		BaseModel: BaseModel{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		PublicID:    s.PublicID,
		SellerID:    s.SellerID,
		ListingID:   s.ListingID,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		MaxBookings: s.MaxBookings,
		Active:      s.Active,
	}
}

func (s *TestDriveSlot) EtoD() *booking.Slot {
	return &booking.Slot{
		ID:          s.ID,
		PublicID:    s.PublicID,
		SellerID:    s.SellerID,
		ListingID:   s.ListingID,
		StartTime:   s.StartTime.UTC(),
		EndTime:     s.EndTime.UTC(),
		MaxBookings: s.MaxBookings,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type TestDriveBooking struct {
	BaseModel
	PublicID  string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	SlotID    string    `gorm:"type:varchar(50);not null;index"`
	UserID    string    `gorm:"type:varchar(50);not null;index"`
	ListingID string    `gorm:"type:varchar(50);not null"`
	StartTime time.Time `gorm:"not null"`
	EndTime   time.Time `gorm:"not null;index"`
	Status    string    `gorm:"type:varchar(20);not null;index"`
	Note      string    `gorm:"type:text"`
}

func NewSchemaTestDriveBooking(b *booking.Booking) *TestDriveBooking {
	return &TestDriveBooking{
		BaseModel: BaseModel{
			ID:        b.ID,
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		},
		PublicID:  b.PublicID,
		SlotID:    b.SlotID,
		UserID:    b.UserID,
		ListingID: b.ListingID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		Note:      b.Note,
	}
}

func (b *TestDriveBooking) EtoD() *booking.Booking {
	return &booking.Booking{
		ID:        b.ID,
		PublicID:  b.PublicID,
		SlotID:    b.SlotID,
		UserID:    b.UserID,
		ListingID: b.ListingID,
		StartTime: b.StartTime.UTC(),
		EndTime:   b.EndTime.UTC(),
		Status:    booking.Status(b.Status),
		Note:      b.Note,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
