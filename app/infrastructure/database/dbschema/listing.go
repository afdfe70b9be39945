package dbschema

import (
	"evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/infrastructure/database"
	"github.com/shopspring/decimal"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Listing{})
}

type Listing struct {
	BaseModel
	PublicID           string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	SellerID           string          `gorm:"type:varchar(50);not null;index"`
	Title              string          `gorm:"type:varchar(255);not null"`
	Brand              string          `gorm:"type:varchar(100);not null;index"`
	Model              string          `gorm:"type:varchar(100);not null"`
	Year               int             `gorm:"not null"`
	Price              decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BatteryCapacityKWh float64
	BatteryHealth      float64
	RangeKm            int
	MileageKm          int
	Location           string   `gorm:"type:varchar(255)"`
	Description        string   `gorm:"type:text"`
	Images             []string `gorm:"serializer:json"`
	Status             string   `gorm:"type:varchar(20);not null;default:'active';index"`
}

func NewSchemaListing(l *listing.Listing) *Listing {
	return &Listing{
		BaseModel: BaseModel{
			ID:        l.ID,
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
		},
		PublicID:           l.PublicID,
		SellerID:           l.SellerID,
		Title:              l.Title,
		Brand:              l.Brand,
		Model:              l.Model,
		Year:               l.Year,
		Price:              l.Price,
		BatteryCapacityKWh: l.BatteryCapacityKWh,
		BatteryHealth:      l.BatteryHealth,
		RangeKm:            l.RangeKm,
		MileageKm:          l.MileageKm,
		Location:           l.Location,
		Description:        l.Description,
		Images:             l.Images,
		Status:             string(l.Status),
	}
}

func (l *Listing) EtoD() *listing.Listing {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return &listing.Listing{
		ID:                 l.ID,
		PublicID:           l.PublicID,
		SellerID:           l.SellerID,
		Title:              l.Title,
		Brand:              l.Brand,
		Model:              l.Model,
		Year:               l.Year,
		Price:              l.Price,
		BatteryCapacityKWh: l.BatteryCapacityKWh,
		BatteryHealth:      l.BatteryHealth,
		RangeKm:            l.RangeKm,
		MileageKm:          l.MileageKm,
		Location:           l.Location,
		Description:        l.Description,
		Images:             images,
		Status:             listing.Status(l.Status),
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}
