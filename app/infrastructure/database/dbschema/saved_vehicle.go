package dbschema

import (
	"time"

	"evmarket.io/marketplace-api/app/domain/savedvehicle"
	"evmarket.io/marketplace-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(SavedVehicle{})
}

type SavedVehicle struct {
	ID        uint      `gorm:"primarykey"`
	PublicID  string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID    string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_saved_vehicle_user_listing"`
	ListingID string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_saved_vehicle_user_listing"`
	CreatedAt time.Time `gorm:"not null"`
}

func NewSchemaSavedVehicle(v *savedvehicle.SavedVehicle) *SavedVehicle {
	return &SavedVehicle{
		ID:        v.ID,
		PublicID:  v.PublicID,
		UserID:    v.UserID,
		ListingID: v.ListingID,
		CreatedAt: v.CreatedAt,
	}
}

func (v *SavedVehicle) EtoD() *savedvehicle.SavedVehicle {
	return &savedvehicle.SavedVehicle{
		ID:        v.ID,
		PublicID:  v.PublicID,
		UserID:    v.UserID,
		ListingID: v.ListingID,
		CreatedAt: v.CreatedAt,
	}
}
