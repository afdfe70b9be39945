package post

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
	"evmarket.io/marketplace-api/app/utils/logger"
	"github.com/sirupsen/logrus"
)

const (
	maxTags     = 10
	likeLockTTL = 5 * time.Second
)

type PostService struct {
	repo   PostRepository
	cache  *cache.CacheService
	locker cache.Locker
}

func NewService(repo PostRepository, cacheService *cache.CacheService, locker cache.Locker) *PostService {
	return &PostService{
		repo:   repo,
		cache:  cacheService,
		locker: locker,
	}
}

type PostInput struct {
	Title    *string
	Content  *string
	Category *Category
	Tags     []string
}

func (in PostInput) apply(p *Post) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		p.Content = strings.TrimSpace(*in.Content)
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Tags != nil {
		p.Tags = normalizeTags(in.Tags)
	}
	switch {
	case p.Title == "" || p.Content == "":
		return fmt.Errorf("title and content are required: %w", common.ErrInvalidArgument)
	case !p.Category.Valid():
		return fmt.Errorf("category %q: %w", p.Category, common.ErrInvalidArgument)
	case len(p.Tags) > maxTags:
		return fmt.Errorf("at most %d tags: %w", maxTags, common.ErrInvalidArgument)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (s *PostService) Create(ctx context.Context, author *user.User, input PostInput) (*Post, error) {
	publicID, err := idgen.GenerateSecureID(idgen.PrefixPost, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &Post{
		PublicID:  publicID,
		AuthorID:  author.PublicID,
		Category:  CategoryGeneral,
		Tags:      []string{},
		LikedBy:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := input.apply(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	if err := s.invalidate(ctx, p.PublicID); err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID does not count a view; see RecordView.
func (s *PostService) FindByID(ctx context.Context, publicID string) (*Post, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Posts.One(publicID), cache.TTLDefault, func(ctx context.Context) (*Post, error) {
		return s.repo.FindByPublicID(ctx, publicID)
	})
}

// RecordView bumps the stored view counter without touching the cache.
// Cached copies show the count as of their last refresh.
func (s *PostService) RecordView(ctx context.Context, publicID string) error {
	p, err := s.FindByID(ctx, publicID)
	if err != nil {
		return err
	}
	return s.repo.IncrementViewCount(ctx, p.ID)
}

// List pages through posts; q.Filter selects a category.
func (s *PostService) List(ctx context.Context, q query.ListQuery) (*query.Page[*Post], error) {
	key := cache.Posts.Page(q.Page, q.Limit, q.Search, q.Filter)
	return cache.GetOrSet(ctx, s.cache, key, cache.TTLDefault, func(ctx context.Context) (*query.Page[*Post], error) {
		filter := PostFilter{}
		if q.Search != "" {
			filter.Search = &q.Search
		}
		if q.Filter != "" {
			category := Category(q.Filter)
			filter.Category = &category
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

func (s *PostService) FindByAuthor(ctx context.Context, authorID string) ([]*Post, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Posts.By("author", authorID), cache.TTLDefault, func(ctx context.Context) ([]*Post, error) {
		items, err := s.repo.FindByFilter(ctx, PostFilter{AuthorID: &authorID}, nil)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*Post{}
		}
		return items, nil
	})
}

func (s *PostService) Update(ctx context.Context, actor *user.User, publicID string, input PostInput) (*Post, error) {
	p, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(p.AuthorID) {
		return nil, fmt.Errorf("post %s: %w", publicID, common.ErrForbidden)
	}
	if err := input.apply(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if err := s.invalidate(ctx, publicID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, actor *user.User, publicID string) error {
	p, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if !actor.Can(p.AuthorID) {
		return fmt.Errorf("post %s: %w", publicID, common.ErrForbidden)
	}
	if err := s.repo.DeleteByID(ctx, p.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return s.invalidate(ctx, publicID)
}

// ToggleLike adds actor's like, or removes it when already present. Toggles
// on one post are serialized so concurrent likes are never lost.
func (s *PostService) ToggleLike(ctx context.Context, actor *user.User, publicID string) (*Post, error) {
	unlock, err := s.locker.Lock(ctx, cache.Posts.One(publicID).String(), likeLockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			logger.GetLogger().WithFields(logrus.Fields{
				"error_code": "6b0e4d2c-8a1f-4f3e-b5c7-2d9a1e8f4c60",
				"post_id":    publicID,
			}).Warn(err)
		}
	}()

	p, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if p.LikedByUser(actor.PublicID) {
		liked := make([]string, 0, len(p.LikedBy))
		for _, id := range p.LikedBy {
			if id != actor.PublicID {
				liked = append(liked, id)
			}
		}
		p.LikedBy = liked
	} else {
		p.LikedBy = append(p.LikedBy, actor.PublicID)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if err := s.invalidate(ctx, publicID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) invalidate(ctx context.Context, publicID string) error {
	return s.cache.Invalidate(ctx, []cache.Key{cache.Posts.One(publicID)}, cache.Posts.All())
}
