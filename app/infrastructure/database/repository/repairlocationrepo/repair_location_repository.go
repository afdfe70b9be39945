package repairlocationrepo

import (
	"context"
	"strings"

	"evmarket.io/marketplace-api/app/domain/query"
	domain "evmarket.io/marketplace-api/app/domain/repairlocation"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
	"gorm.io/gorm"
)

type RepairLocationGormRepository struct {
	db *transaction.Database
}

func NewRepairLocationGormRepository(db *transaction.Database) domain.RepairLocationRepository {
	return &RepairLocationGormRepository{
		db: db,
	}
}

func (r *RepairLocationGormRepository) Create(ctx context.Context, l *domain.RepairLocation) error {
	model := dbschema.NewSchemaRepairLocation(l)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	l.ID = model.ID
	return nil
}

func (r *RepairLocationGormRepository) Update(ctx context.Context, l *domain.RepairLocation) error {
	return r.db.GetTx(ctx).Save(dbschema.NewSchemaRepairLocation(l)).Error
}

func (r *RepairLocationGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.GetTx(ctx).Delete(&dbschema.RepairLocation{}, id).Error
}

func (r *RepairLocationGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.RepairLocation, error) {
	var model dbschema.RepairLocation
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "repair location", publicID)
	}
	return model.EtoD(), nil
}

func (r *RepairLocationGormRepository) FindByFilter(ctx context.Context, filter domain.RepairLocationFilter, p *query.Pagination) ([]*domain.RepairLocation, error) {
	tx := dbschema.Paginate(r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.RepairLocation{}), filter), p)
	var rows []*dbschema.RepairLocation
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.RepairLocation) *domain.RepairLocation {
		return item.EtoD()
	}), nil
}

func (r *RepairLocationGormRepository) Count(ctx context.Context, filter domain.RepairLocationFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.RepairLocation{}), filter).Count(&count).Error
	return count, err
}

func (r *RepairLocationGormRepository) applyFilter(tx *gorm.DB, filter domain.RepairLocationFilter) *gorm.DB {
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.City != nil {
		tx = tx.Where("LOWER(city) = ?", strings.ToLower(*filter.City))
	}
	if filter.Search != nil {
		term := "%" + strings.ToLower(*filter.Search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", term, term)
	}
	return tx
}
