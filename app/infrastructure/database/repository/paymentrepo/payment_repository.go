package paymentrepo

import (
	"context"

	domain "evmarket.io/marketplace-api/app/domain/payment"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *transaction.Database
}

func NewPaymentGormRepository(db *transaction.Database) domain.PaymentRepository {
	return &PaymentGormRepository{
		db: db,
	}
}

func (r *PaymentGormRepository) Create(ctx context.Context, p *domain.Payment) error {
	model := dbschema.NewSchemaPayment(p)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	p.ID = model.ID
	return nil
}

func (r *PaymentGormRepository) Update(ctx context.Context, p *domain.Payment) error {
	return r.db.GetTx(ctx).Save(dbschema.NewSchemaPayment(p)).Error
}

func (r *PaymentGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Payment, error) {
	var model dbschema.Payment
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "payment", publicID)
	}
	return model.EtoD(), nil
}

func (r *PaymentGormRepository) FindByGatewayRef(ctx context.Context, ref string) (*domain.Payment, error) {
	var model dbschema.Payment
	if err := r.db.GetTx(ctx).Where("gateway_ref = ?", ref).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "payment with gateway ref", ref)
	}
	return model.EtoD(), nil
}

func (r *PaymentGormRepository) FindByFilter(ctx context.Context, filter domain.PaymentFilter, p *query.Pagination) ([]*domain.Payment, error) {
	tx := dbschema.Paginate(r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Payment{}), filter), p)
	var rows []*dbschema.Payment
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.Payment) *domain.Payment {
		return item.EtoD()
	}), nil
}

func (r *PaymentGormRepository) applyFilter(tx *gorm.DB, filter domain.PaymentFilter) *gorm.DB {
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.OrderID != nil {
		tx = tx.Where("order_id = ?", *filter.OrderID)
	}
	if filter.UserID != nil {
		tx = tx.Where("user_id = ?", *filter.UserID)
	}
	if filter.GatewayRef != nil {
		tx = tx.Where("gateway_ref = ?", *filter.GatewayRef)
	}
	if filter.Status != nil {
		tx = tx.Where("status = ?", string(*filter.Status))
	}
	return tx
}
