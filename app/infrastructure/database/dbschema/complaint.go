package dbschema

import (
	"evmarket.io/marketplace-api/app/domain/complaint"
	"evmarket.io/marketplace-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Complaint{})
}

type Complaint struct {
	BaseModel
	PublicID    string `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID      string `gorm:"type:varchar(50);not null;index"`
	OrderID     string `gorm:"type:varchar(50);index"`
	Subject     string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text;not null"`
	Status      string `gorm:"type:varchar(20);not null;index"`
	Resolution  string `gorm:"type:text"`
}

func NewSchemaComplaint(c *complaint.Complaint) *Complaint {
	return &Complaint{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID:    c.PublicID,
		UserID:      c.UserID,
		OrderID:     c.OrderID,
		Subject:     c.Subject,
		Description: c.Description,
		Status:      string(c.Status),
		Resolution:  c.Resolution,
	}
}

func (c *Complaint) EtoD() *complaint.Complaint {
	return &complaint.Complaint{
		ID:          c.ID,
		PublicID:    c.PublicID,
		UserID:      c.UserID,
		OrderID:     c.OrderID,
		Subject:     c.Subject,
		Description: c.Description,
		Status:      complaint.Status(c.Status),
		Resolution:  c.Resolution,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
