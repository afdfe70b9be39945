package post

import (
	"context"
	"time"

	"evmarket.io/marketplace-api/app/domain/query"
)

type Category string

const (
	CategoryGeneral     Category = "general"
	CategoryNews        Category = "news"
	CategoryReview      Category = "review"
	CategoryQuestion    Category = "question"
	CategoryMaintenance Category = "maintenance"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryNews, CategoryReview, CategoryQuestion, CategoryMaintenance:
		return true
	}
	return false
}

type Post struct {
	ID        uint      `json:"id"`
	PublicID  string    `json:"public_id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags"`
	LikedBy   []string  `json:"liked_by"`
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) LikeCount() int {
	return len(p.LikedBy)
}

func (p *Post) LikedByUser(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

type PostFilter struct {
	PublicID *string
	AuthorID *string
	Category *Category
	Search   *string
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	Update(ctx context.Context, p *Post) error
	DeleteByID(ctx context.Context, id uint) error
	FindByPublicID(ctx context.Context, publicID string) (*Post, error)
	FindByFilter(ctx context.Context, filter PostFilter, p *query.Pagination) ([]*Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
	IncrementViewCount(ctx context.Context, id uint) error
}
