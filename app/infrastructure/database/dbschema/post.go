package dbschema

import (
	"evmarket.io/marketplace-api/app/domain/post"
	"evmarket.io/marketplace-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Post{})
}

type Post struct {
	BaseModel
	PublicID  string   `gorm:"type:varchar(50);uniqueIndex;not null"`
	AuthorID  string   `gorm:"type:varchar(50);not null;index"`
	Title     string   `gorm:"type:varchar(255);not null"`
	Content   string   `gorm:"type:text;not null"`
	Category  string   `gorm:"type:varchar(30);not null;index"`
	Tags      []string `gorm:"serializer:json"`
	LikedBy   []string `gorm:"serializer:json"`
	ViewCount int64    `gorm:"not null;default:0"`
}

func NewSchemaPost(p *post.Post) *Post {
	return &Post{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		PublicID:  p.PublicID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  string(p.Category),
		Tags:      p.Tags,
		LikedBy:   p.LikedBy,
		ViewCount: p.ViewCount,
	}
}

func (p *Post) EtoD() *post.Post {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	likedBy := p.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	return &post.Post{
		ID:        p.ID,
		PublicID:  p.PublicID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  post.Category(p.Category),
		Tags:      tags,
		LikedBy:   likedBy,
		ViewCount: p.ViewCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
