package listingrepo

import (
	"context"
	"strings"

	domain "evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
	"gorm.io/gorm"
)

type ListingGormRepository struct {
	db *transaction.Database
}

func NewListingGormRepository(db *transaction.Database) domain.ListingRepository {
	return &ListingGormRepository{
		db: db,
	}
}

func (r *ListingGormRepository) Create(ctx context.Context, l *domain.Listing) error {
	model := dbschema.NewSchemaListing(l)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	l.ID = model.ID
	return nil
}

func (r *ListingGormRepository) Update(ctx context.Context, l *domain.Listing) error {
	return r.db.GetTx(ctx).Save(dbschema.NewSchemaListing(l)).Error
}

func (r *ListingGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.GetTx(ctx).Delete(&dbschema.Listing{}, id).Error
}

func (r *ListingGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Listing, error) {
	var model dbschema.Listing
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "listing", publicID)
	}
	return model.EtoD(), nil
}

func (r *ListingGormRepository) FindByFilter(ctx context.Context, filter domain.ListingFilter, p *query.Pagination) ([]*domain.Listing, error) {
	tx := dbschema.Paginate(r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Listing{}), filter), p)
	var rows []*dbschema.Listing
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.Listing) *domain.Listing {
		return item.EtoD()
	}), nil
}

func (r *ListingGormRepository) Count(ctx context.Context, filter domain.ListingFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Listing{}), filter).Count(&count).Error
	return count, err
}

func (r *ListingGormRepository) applyFilter(tx *gorm.DB, filter domain.ListingFilter) *gorm.DB {
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.SellerID != nil {
		tx = tx.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.Status != nil {
		tx = tx.Where("status = ?", string(*filter.Status))
	}
	if filter.Brand != nil {
		tx = tx.Where("LOWER(brand) = ?", strings.ToLower(*filter.Brand))
	}
	if filter.Search != nil {
		term := "%" + strings.ToLower(*filter.Search) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(model) LIKE ? OR LOWER(description) LIKE ?", term, term, term)
	}
	return tx
}
