package notificationrepo

import (
	"context"

	domain "evmarket.io/marketplace-api/app/domain/notification"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
	"gorm.io/gorm"
)

type NotificationGormRepository struct {
	db *transaction.Database
}

func NewNotificationGormRepository(db *transaction.Database) domain.NotificationRepository {
	return &NotificationGormRepository{
		db: db,
	}
}

func (r *NotificationGormRepository) Create(ctx context.Context, n *domain.Notification) error {
	model := dbschema.NewSchemaNotification(n)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	n.ID = model.ID
	return nil
}

func (r *NotificationGormRepository) Update(ctx context.Context, n *domain.Notification) error {
	return r.db.GetTx(ctx).Save(dbschema.NewSchemaNotification(n)).Error
}

func (r *NotificationGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.GetTx(ctx).Delete(&dbschema.Notification{}, id).Error
}

func (r *NotificationGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Notification, error) {
	var model dbschema.Notification
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "notification", publicID)
	}
	return model.EtoD(), nil
}

func (r *NotificationGormRepository) FindByFilter(ctx context.Context, filter domain.NotificationFilter, p *query.Pagination) ([]*domain.Notification, error) {
	tx := dbschema.Paginate(r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Notification{}), filter), p)
	var rows []*dbschema.Notification
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.Notification) *domain.Notification {
		return item.EtoD()
	}), nil
}

func (r *NotificationGormRepository) Count(ctx context.Context, filter domain.NotificationFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.Notification{}), filter).Count(&count).Error
	return count, err
}

func (r *NotificationGormRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.GetTx(ctx).Model(&dbschema.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationGormRepository) applyFilter(tx *gorm.DB, filter domain.NotificationFilter) *gorm.DB {
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.UserID != nil {
		tx = tx.Where("user_id = ?", *filter.UserID)
	}
	if filter.Read != nil {
		tx = tx.Where("is_read = ?", *filter.Read)
	}
	return tx
}
