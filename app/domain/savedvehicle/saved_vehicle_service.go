package savedvehicle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/idgen"
)

type ListingReader interface {
	FindByID(ctx context.Context, publicID string) (*listing.Listing, error)
}

type SavedVehicleService struct {
	repo     SavedVehicleRepository
	cache    *cache.CacheService
	listings ListingReader
}

func NewService(repo SavedVehicleRepository, cacheService *cache.CacheService, listings ListingReader) *SavedVehicleService {
	return &SavedVehicleService{
		repo:     repo,
		cache:    cacheService,
		listings: listings,
	}
}

func (s *SavedVehicleService) Save(ctx context.Context, userID string, listingID string) (*SavedVehicle, error) {
	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		return nil, err
	}
	existing, err := s.repo.Find(ctx, userID, listingID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("listing %s already saved: %w", listingID, common.ErrConflict)
	}
	publicID, err := idgen.GenerateSecureID(idgen.PrefixSavedVehicle, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	v := &SavedVehicle{
		PublicID:  publicID,
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save vehicle: %w", err)
	}
	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// Remove unsaves the listing. Removing something that was never saved is ErrNotFound.
func (s *SavedVehicleService) Remove(ctx context.Context, userID string, listingID string) error {
	removed, err := s.repo.Delete(ctx, userID, listingID)
	if err != nil {
		return fmt.Errorf("failed to remove saved vehicle: %w", err)
	}
	if !removed {
		return fmt.Errorf("saved vehicle %s: %w", listingID, common.ErrNotFound)
	}
	return s.invalidate(ctx)
}

func (s *SavedVehicleService) FindByUser(ctx context.Context, userID string) ([]*SavedVehicle, error) {
	return cache.GetOrSet(ctx, s.cache, cache.SavedVehicles.By("user", userID), cache.TTLDefault, func(ctx context.Context) ([]*SavedVehicle, error) {
		items, err := s.repo.FindByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*SavedVehicle{}
		}
		return items, nil
	})
}

// IsSaved answers from the cached per-user list.
func (s *SavedVehicleService) IsSaved(ctx context.Context, userID string, listingID string) (bool, error) {
	items, err := s.FindByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, v := range items {
		if v.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (s *SavedVehicleService) invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, nil, cache.SavedVehicles.All())
}
