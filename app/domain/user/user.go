package user

import (
	"context"
	"time"

	"evmarket.io/marketplace-api/app/domain/query"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint      `json:"id"`
	PublicID     string    `json:"public_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Can reports whether u may act on a resource owned by ownerID.
func (u *User) Can(ownerID string) bool {
	return u != nil && (u.IsAdmin() || u.PublicID == ownerID)
}

type UserFilter struct {
	PublicID *string
	Email    *string
	Role     *Role
	Enabled  *bool
	Search   *string
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	DeleteByID(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByFilter(ctx context.Context, filter UserFilter, p *query.Pagination) ([]*User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
}
