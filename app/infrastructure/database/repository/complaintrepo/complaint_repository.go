package complaintrepo

import (
	"context"

	domain "evmarket.io/marketplace-api/app/domain/complaint"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
	"gorm.io/gorm"
)

type ComplaintGormRepository struct {
	db *transaction.Database
}

func NewComplaintGormRepository(db *transaction.Database) domain.ComplaintRepository {
	return &ComplaintGormRepository{
		db: db,
	}
}

func (r *ComplaintGormRepository) Create(ctx context.Context, c *domain.Complaint) error {
	model := dbschema.NewSchemaComplaint(c)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	c.ID = model.ID
	return nil
}

func (r *ComplaintGormRepository) Update(ctx context.Context, c *domain.Complaint) error {
	return r.db.GetTx(ctx).Save(dbschema.NewSchemaComplaint(c)).Error
}

func (r *ComplaintGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Complaint, error) {
	var model dbschema.Complaint
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "complaint", publicID)
	}
	return model.EtoD(), nil
}

func (r *ComplaintGormRepository) FindByFilter(ctx context.Context, filter domain.ComplaintFilter, p *query.Pagination) ([]*domain.Complaint, error) {
	tx := dbschema.Paginate(r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Complaint{}), filter), p)
	var rows []*dbschema.Complaint
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.Complaint) *domain.Complaint {
		return item.EtoD()
	}), nil
}

func (r *ComplaintGormRepository) Count(ctx context.Context, filter domain.ComplaintFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Complaint{}), filter).Count(&count).Error
	return count, err
}

func (r *ComplaintGormRepository) applyFilter(tx *gorm.DB, filter domain.ComplaintFilter) *gorm.DB {
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.UserID != nil {
		tx = tx.Where("user_id = ?", *filter.UserID)
	}
	if filter.OrderID != nil {
		tx = tx.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Status != nil {
		tx = tx.Where("status = ?", string(*filter.Status))
	}
	return tx
}
