package repairlocation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/idgen"
)

type RepairLocationService struct {
	repo  RepairLocationRepository
	cache *cache.CacheService
}

func NewService(repo RepairLocationRepository, cacheService *cache.CacheService) *RepairLocationService {
	return &RepairLocationService{
		repo:  repo,
		cache: cacheService,
	}
}

type RepairLocationInput struct {
	Name         *string
	Address      *string
	City         *string
	Latitude     *float64
	Longitude    *float64
	Phone        *string
	Services     []string
	OpeningHours *string
}

func (in RepairLocationInput) apply(l *RepairLocation) error {
	if in.Name != nil {
		l.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		l.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		l.City = strings.TrimSpace(*in.City)
	}
	if in.Latitude != nil {
		l.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		l.Longitude = *in.Longitude
	}
	if in.Phone != nil {
		l.Phone = *in.Phone
	}
	if in.Services != nil {
		l.Services = in.Services
	}
	if in.OpeningHours != nil {
		l.OpeningHours = *in.OpeningHours
	}
	switch {
	case l.Name == "" || l.Address == "" || l.City == "":
		return fmt.Errorf("name, address and city are required: %w", common.ErrInvalidArgument)
	case l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180:
		return fmt.Errorf("coordinates out of range: %w", common.ErrInvalidArgument)
	}
	return nil
}

func (s *RepairLocationService) Create(ctx context.Context, input RepairLocationInput) (*RepairLocation, error) {
	publicID, err := idgen.GenerateSecureID(idgen.PrefixRepairLocation, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	l := &RepairLocation{
		PublicID:  publicID,
		Services:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := input.apply(l); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create repair location: %w", err)
	}
	if err := s.invalidate(ctx, l.PublicID); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *RepairLocationService) Update(ctx context.Context, publicID string, input RepairLocationInput) (*RepairLocation, error) {
	l, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := input.apply(l); err != nil {
		return nil, err
	}
	l.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update repair location: %w", err)
	}
	if err := s.invalidate(ctx, publicID); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *RepairLocationService) Delete(ctx context.Context, publicID string) error {
	l, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, l.ID); err != nil {
		return fmt.Errorf("failed to delete repair location: %w", err)
	}
	return s.invalidate(ctx, publicID)
}

func (s *RepairLocationService) FindByID(ctx context.Context, publicID string) (*RepairLocation, error) {
	return cache.GetOrSet(ctx, s.cache, cache.RepairLocations.One(publicID), cache.TTLDefault, func(ctx context.Context) (*RepairLocation, error) {
		return s.repo.FindByPublicID(ctx, publicID)
	})
}

// List pages through locations; q.Filter selects a city.
func (s *RepairLocationService) List(ctx context.Context, q query.ListQuery) (*query.Page[*RepairLocation], error) {
	key := cache.RepairLocations.Page(q.Page, q.Limit, q.Search, q.Filter)
	return cache.GetOrSet(ctx, s.cache, key, cache.TTLDefault, func(ctx context.Context) (*query.Page[*RepairLocation], error) {
		filter := RepairLocationFilter{}
		if q.Search != "" {
			filter.Search = &q.Search
		}
		if q.Filter != "" {
			filter.City = &q.Filter
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

func (s *RepairLocationService) invalidate(ctx context.Context, publicID string) error {
	return s.cache.Invalidate(ctx, []cache.Key{cache.RepairLocations.One(publicID)}, cache.RepairLocations.All())
}
