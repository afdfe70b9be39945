package dbschema

import (
	"evmarket.io/marketplace-api/app/domain/repairlocation"
	"evmarket.io/marketplace-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(RepairLocation{})
}

type RepairLocation struct {
	BaseModel
	PublicID     string   `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name         string   `gorm:"type:varchar(255);not null"`
	Address      string   `gorm:"type:varchar(500);not null"`
	City         string   `gorm:"type:varchar(100);not null;index"`
	Latitude     float64  `gorm:"not null"`
	Longitude    float64  `gorm:"not null"`
	Phone        string   `gorm:"type:varchar(50)"`
	Services     []string `gorm:"serializer:json"`
	OpeningHours string   `gorm:"type:varchar(255)"`
}

func NewSchemaRepairLocation(l *repairlocation.RepairLocation) *RepairLocation {
	return &RepairLocation{
		BaseModel: BaseModel{
			ID:        l.ID,
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
		},
		PublicID:     l.PublicID,
		Name:         l.Name,
		Address:      l.Address,
		City:         l.City,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		Phone:        l.Phone,
		Services:     l.Services,
		OpeningHours: l.OpeningHours,
	}
}

func (l *RepairLocation) EtoD() *repairlocation.RepairLocation {
	services := l.Services
	if services == nil {
		services = []string{}
	}
	return &repairlocation.RepairLocation{
		ID:           l.ID,
		PublicID:     l.PublicID,
		Name:         l.Name,
		Address:      l.Address,
		City:         l.City,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		Phone:        l.Phone,
		Services:     services,
		OpeningHours: l.OpeningHours,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
