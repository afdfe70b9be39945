package postrepo

import (
	"context"
	"strings"

	domain "evmarket.io/marketplace-api/app/domain/post"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
	"gorm.io/gorm"
)

type PostGormRepository struct {
	db *transaction.Database
}

func NewPostGormRepository(db *transaction.Database) domain.PostRepository {
	return &PostGormRepository{
		db: db,
	}
}

func (r *PostGormRepository) Create(ctx context.Context, p *domain.Post) error {
	model := dbschema.NewSchemaPost(p)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	p.ID = model.ID
	return nil
}

// Update leaves view_count alone; IncrementViewCount owns it.
func (r *PostGormRepository) Update(ctx context.Context, p *domain.Post) error {
	return r.db.GetTx(ctx).Omit("view_count").Save(dbschema.NewSchemaPost(p)).Error
}

func (r *PostGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.GetTx(ctx).Delete(&dbschema.Post{}, id).Error
}

func (r *PostGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Post, error) {
	var model dbschema.Post
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "post", publicID)
	}
	return model.EtoD(), nil
}

func (r *PostGormRepository) FindByFilter(ctx context.Context, filter domain.PostFilter, p *query.Pagination) ([]*domain.Post, error) {
	tx := dbschema.Paginate(r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Post{}), filter), p)
	var rows []*dbschema.Post
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.Post) *domain.Post {
		return item.EtoD()
	}), nil
}

func (r *PostGormRepository) Count(ctx context.Context, filter domain.PostFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Post{}), filter).Count(&count).Error
	return count, err
}

func (r *PostGormRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.GetTx(ctx).Model(&dbschema.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (r *PostGormRepository) applyFilter(tx *gorm.DB, filter domain.PostFilter) *gorm.DB {
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.AuthorID != nil {
		tx = tx.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.Category != nil {
		tx = tx.Where("category = ?", string(*filter.Category))
	}
	if filter.Search != nil {
		term := "%" + strings.ToLower(*filter.Search) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", term, term)
	}
	return tx
}
