package dbschema

import (
	"time"

	"evmarket.io/marketplace-api/app/domain/notification"
	"evmarket.io/marketplace-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Notification{})
}

type Notification struct {
	ID        uint      `gorm:"primarykey"`
	PublicID  string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID    string    `gorm:"type:varchar(50);not null;index"`
	Type      string    `gorm:"type:varchar(20);not null"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Message   string    `gorm:"type:text"`
	Read      bool      `gorm:"column:is_read;not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func NewSchemaNotification(n *notification.Notification) *Notification {
	return &Notification{
		ID:        n.ID,
		PublicID:  n.PublicID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func (n *Notification) EtoD() *notification.Notification {
	return &notification.Notification{
		ID:        n.ID,
		PublicID:  n.PublicID,
		UserID:    n.UserID,
		Type:      notification.Type(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
