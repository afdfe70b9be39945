package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/idgen"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type UserService struct {
	userrepo UserRepository
	cache    *cache.CacheService
}

func NewService(userrepo UserRepository, cacheService *cache.CacheService) *UserService {
	return &UserService{
		userrepo: userrepo,
		cache:    cacheService,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     Role
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("email %q: %w", input.Email, common.ErrInvalidArgument)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, common.ErrInvalidArgument)
	}
	role := input.Role
	if role == "" {
		role = RoleBuyer
	}
	if role == RoleAdmin || !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", input.Role, common.ErrInvalidArgument)
	}

	existing, err := s.userrepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s already registered: %w", email, common.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	publicID, err := idgen.GenerateSecureID(idgen.PrefixUser, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &User{
		PublicID:     publicID,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
		Role:         role,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userrepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.cache.Invalidate(ctx, nil, cache.Users.All()); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email string, password string) (*User, error) {
	u, err := s.userrepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrInvalidArgument)
	}
	if !u.Enabled {
		return nil, fmt.Errorf("account disabled: %w", common.ErrForbidden)
	}
	return u, nil
}

func (s *UserService) FindByPublicID(ctx context.Context, publicID string) (*User, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Users.One(publicID), cache.TTLDefault, func(ctx context.Context) (*User, error) {
		return s.userrepo.FindByPublicID(ctx, publicID)
	})
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.userrepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// List pages through users; q.Filter selects a role.
func (s *UserService) List(ctx context.Context, q query.ListQuery) (*query.Page[*User], error) {
	key := cache.Users.Page(q.Page, q.Limit, q.Search, q.Filter)
	return cache.GetOrSet(ctx, s.cache, key, cache.TTLDefault, func(ctx context.Context) (*query.Page[*User], error) {
		filter := UserFilter{}
		if q.Search != "" {
			filter.Search = &q.Search
		}
		if q.Filter != "" {
			role := Role(q.Filter)
			filter.Role = &role
		}
		users, err := s.userrepo.FindByFilter(ctx, filter, &q.Pagination)
		if err != nil {
			return nil, err
		}
		total, err := s.userrepo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		return query.NewPage(users, total, q.Pagination), nil
	})
}

type ProfileUpdate struct {
	Name  *string
	Phone *string
}

func (s *UserService) UpdateProfile(ctx context.Context, publicID string, update ProfileUpdate) (*User, error) {
	u, err := s.userrepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		u.Name = strings.TrimSpace(*update.Name)
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	u.UpdatedAt = time.Now().UTC()
	if err := s.userrepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := s.invalidate(ctx, publicID); err != nil {
		return nil, err
	}
	return u, nil
}

// SetRole is an admin operation.
func (s *UserService) SetRole(ctx context.Context, publicID string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, common.ErrInvalidArgument)
	}
	u, err := s.userrepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	if err := s.userrepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := s.invalidate(ctx, publicID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, publicID string) error {
	u, err := s.userrepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if err := s.userrepo.DeleteByID(ctx, u.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return s.invalidate(ctx, publicID)
}

func (s *UserService) invalidate(ctx context.Context, publicID string) error {
	return s.cache.Invalidate(ctx, []cache.Key{cache.Users.One(publicID)}, cache.Users.All())
}
