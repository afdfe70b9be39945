package dbschema

import (
	"evmarket.io/marketplace-api/app/domain/order"
	"evmarket.io/marketplace-api/app/infrastructure/database"
	"github.com/shopspring/decimal"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Order{})
}

type Order struct {
	BaseModel
	PublicID        string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	BuyerID         string          `gorm:"type:varchar(50);not null;index"`
	SellerID        string          `gorm:"type:varchar(50);not null;index"`
	ListingID       string          `gorm:"type:varchar(50);not null;index"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ShippingAddress string          `gorm:"type:text"`
	Note            string          `gorm:"type:text"`
	Status          string          `gorm:"type:varchar(20);not null;index"`
}

func NewSchemaOrder(o *order.Order) *Order {
	return &Order{
		BaseModel: BaseModel{
			ID:        o.ID,
			CreatedAt: o.CreatedAt,
			UpdatedAt: o.UpdatedAt,
		},
		PublicID:        o.PublicID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		ListingID:       o.ListingID,
		Amount:          o.Amount,
		ShippingAddress: o.ShippingAddress,
		Note:            o.Note,
		Status:          string(o.Status),
	}
}

func (o *Order) EtoD() *order.Order {
	return &order.Order{
		ID:              o.ID,
		PublicID:        o.PublicID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		ListingID:       o.ListingID,
		Amount:          o.Amount,
		ShippingAddress: o.ShippingAddress,
		Note:            o.Note,
		Status:          order.Status(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
