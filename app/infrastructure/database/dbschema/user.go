package dbschema

import (
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{})
}

type User struct {
	BaseModel
	PublicID     string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name         string `gorm:"type:varchar(255)"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Phone        string `gorm:"type:varchar(50)"`
	Role         string `gorm:"type:varchar(20);not null;default:'buyer';index"`
	Enabled      bool   `gorm:"not null"`
}

func NewSchemaUser(u *user.User) *User {
	return &User{
		BaseModel: BaseModel{
			ID:        u.ID,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		},
		PublicID:     u.PublicID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		Role:         string(u.Role),
		Enabled:      u.Enabled,
	}
}

func (u *User) EtoD() *user.User {
	return &user.User{
		ID:           u.ID,
		PublicID:     u.PublicID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		Role:         user.Role(u.Role),
		Enabled:      u.Enabled,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
