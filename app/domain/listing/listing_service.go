package listing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/idgen"
	"github.com/shopspring/decimal"
)

type ListingService struct {
	repo  ListingRepository
	cache *cache.CacheService
}

func NewService(repo ListingRepository, cacheService *cache.CacheService) *ListingService {
	return &ListingService{
		repo:  repo,
		cache: cacheService,
	}
}

// ListingInput carries the editable fields. Nil fields are left unchanged on update.
type ListingInput struct {
	Title              *string
	Brand              *string
	Model              *string
	Year               *int
	Price              *decimal.Decimal
	BatteryCapacityKWh *float64
	BatteryHealth      *float64
	RangeKm            *int
	MileageKm          *int
	Location           *string
	Description        *string
	Images             []string
	Status             *Status
}

func (in ListingInput) apply(l *Listing) {
	if in.Title != nil {
		l.Title = strings.TrimSpace(*in.Title)
	}
	if in.Brand != nil {
		l.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Model != nil {
		l.Model = strings.TrimSpace(*in.Model)
	}
	if in.Year != nil {
		l.Year = *in.Year
	}
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.BatteryCapacityKWh != nil {
		l.BatteryCapacityKWh = *in.BatteryCapacityKWh
	}
	if in.BatteryHealth != nil {
		l.BatteryHealth = *in.BatteryHealth
	}
	if in.RangeKm != nil {
		l.RangeKm = *in.RangeKm
	}
	if in.MileageKm != nil {
		l.MileageKm = *in.MileageKm
	}
	if in.Location != nil {
		l.Location = *in.Location
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.Images != nil {
		l.Images = in.Images
	}
	if in.Status != nil {
		l.Status = *in.Status
	}
}

func validate(l *Listing) error {
	switch {
	case l.Title == "" || l.Brand == "" || l.Model == "":
		return fmt.Errorf("title, brand and model are required: %w", common.ErrInvalidArgument)
	case !l.Price.IsPositive():
		return fmt.Errorf("price must be positive: %w", common.ErrInvalidArgument)
	case l.BatteryHealth < 0 || l.BatteryHealth > 100:
		return fmt.Errorf("battery health must be between 0 and 100: %w", common.ErrInvalidArgument)
	case l.Year < 1990 || l.Year > time.Now().Year()+1:
		return fmt.Errorf("year %d out of range: %w", l.Year, common.ErrInvalidArgument)
	case !l.Status.Valid():
		return fmt.Errorf("status %q: %w", l.Status, common.ErrInvalidArgument)
	}
	return nil
}

func (s *ListingService) Create(ctx context.Context, seller *user.User, input ListingInput) (*Listing, error) {
	publicID, err := idgen.GenerateSecureID(idgen.PrefixListing, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	l := &Listing{
		PublicID:  publicID,
		SellerID:  seller.PublicID,
		Images:    []string{},
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Status = nil
	input.apply(l)
	if err := validate(l); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	if err := s.invalidate(ctx, l.PublicID); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ListingService) FindByID(ctx context.Context, publicID string) (*Listing, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Listings.One(publicID), cache.TTLDefault, func(ctx context.Context) (*Listing, error) {
		return s.repo.FindByPublicID(ctx, publicID)
	})
}

// List pages through active listings. q.Filter selects a brand.
func (s *ListingService) List(ctx context.Context, q query.ListQuery) (*query.Page[*Listing], error) {
	key := cache.Listings.Page(q.Page, q.Limit, q.Search, q.Filter)
	return cache.GetOrSet(ctx, s.cache, key, cache.TTLDefault, func(ctx context.Context) (*query.Page[*Listing], error) {
		active := StatusActive
		filter := ListingFilter{Status: &active}
		if q.Search != "" {
			filter.Search = &q.Search
		}
		if q.Filter != "" {
			filter.Brand = &q.Filter
		}
		items, err := s.repo.FindByFilter(ctx, filter, &q.Pagination)
		if err != nil {
			return nil, err
		}
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		return query.NewPage(items, total, q.Pagination), nil
	})
}

func (s *ListingService) FindBySeller(ctx context.Context, sellerID string) ([]*Listing, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Listings.By("seller", sellerID), cache.TTLDefault, func(ctx context.Context) ([]*Listing, error) {
		items, err := s.repo.FindByFilter(ctx, ListingFilter{SellerID: &sellerID}, nil)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*Listing{}
		}
		return items, nil
	})
}

func (s *ListingService) Update(ctx context.Context, actor *user.User, publicID string, input ListingInput) (*Listing, error) {
	l, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(l.SellerID) {
		return nil, fmt.Errorf("listing %s: %w", publicID, common.ErrForbidden)
	}
	if input.Status != nil && *input.Status == StatusSold {
		return nil, fmt.Errorf("listings are marked sold by completing an order: %w", common.ErrInvalidArgument)
	}
	if l.Status == StatusSold {
		return nil, fmt.Errorf("listing %s is sold: %w", publicID, common.ErrConflict)
	}
	input.apply(l)
	if err := validate(l); err != nil {
		return nil, err
	}
	l.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	if err := s.invalidate(ctx, publicID); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ListingService) Delete(ctx context.Context, actor *user.User, publicID string) error {
	l, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if !actor.Can(l.SellerID) {
		return fmt.Errorf("listing %s: %w", publicID, common.ErrForbidden)
	}
	if err := s.repo.DeleteByID(ctx, l.ID); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return s.invalidate(ctx, publicID)
}

// MarkSold is called when an order for the listing completes.
func (s *ListingService) MarkSold(ctx context.Context, publicID string) error {
	l, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if l.Status == StatusSold {
		return nil
	}
	l.Status = StatusSold
	l.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return fmt.Errorf("failed to mark listing sold: %w", err)
	}
	return s.invalidate(ctx, publicID)
}

func (s *ListingService) invalidate(ctx context.Context, publicID string) error {
	return s.cache.Invalidate(ctx, []cache.Key{cache.Listings.One(publicID)}, cache.Listings.All())
}
