package dbschema

import (
	"evmarket.io/marketplace-api/app/domain/payment"
	"evmarket.io/marketplace-api/app/infrastructure/database"
	"github.com/shopspring/decimal"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Payment{})
}

type Payment struct {
	BaseModel
	PublicID    string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	OrderID     string          `gorm:"type:varchar(50);not null;index"`
	UserID      string          `gorm:"type:varchar(50);not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Method      string          `gorm:"type:varchar(20);not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	GatewayRef  string          `gorm:"type:varchar(100);index"`
	CheckoutURL string          `gorm:"type:text"`
}

func NewSchemaPayment(p *payment.Payment) *Payment {
	return &Payment{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		PublicID:    p.PublicID,
		OrderID:     p.OrderID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Method:      string(p.Method),
		Status:      string(p.Status),
		GatewayRef:  p.GatewayRef,
		CheckoutURL: p.CheckoutURL,
	}
}

func (p *Payment) EtoD() *payment.Payment {
	return &payment.Payment{
		ID:          p.ID,
		PublicID:    p.PublicID,
		OrderID:     p.OrderID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Method:      payment.Method(p.Method),
		Status:      payment.Status(p.Status),
		GatewayRef:  p.GatewayRef,
		CheckoutURL: p.CheckoutURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
