package orderrepo

import (
	"context"

	domain "evmarket.io/marketplace-api/app/domain/order"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *transaction.Database
}

func NewOrderGormRepository(db *transaction.Database) domain.OrderRepository {
	return &OrderGormRepository{
		db: db,
	}
}

func (r *OrderGormRepository) Create(ctx context.Context, o *domain.Order) error {
	model := dbschema.NewSchemaOrder(o)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	o.ID = model.ID
	return nil
}

func (r *OrderGormRepository) Update(ctx context.Context, o *domain.Order) error {
	return r.db.GetTx(ctx).Save(dbschema.NewSchemaOrder(o)).Error
}

func (r *OrderGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Order, error) {
	var model dbschema.Order
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "order", publicID)
	}
	return model.EtoD(), nil
}

func (r *OrderGormRepository) FindByFilter(ctx context.Context, filter domain.OrderFilter, p *query.Pagination) ([]*domain.Order, error) {
	tx := dbschema.Paginate(r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Order{}), filter), p)
	var rows []*dbschema.Order
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.Order) *domain.Order {
		return item.EtoD()
	}), nil
}

func (r *OrderGormRepository) Count(ctx context.Context, filter domain.OrderFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Order{}), filter).Count(&count).Error
	return count, err
}

func (r *OrderGormRepository) applyFilter(tx *gorm.DB, filter domain.OrderFilter) *gorm.DB {
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.BuyerID != nil {
		tx = tx.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.SellerID != nil {
		tx = tx.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.ListingID != nil {
		tx = tx.Where("listing_id = ?", *filter.ListingID)
	}
	if filter.Status != nil {
		tx = tx.Where("status = ?", string(*filter.Status))
	}
	return tx
}
