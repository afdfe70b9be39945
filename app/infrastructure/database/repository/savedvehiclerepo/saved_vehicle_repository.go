package savedvehiclerepo

import (
	"context"

	domain "evmarket.io/marketplace-api/app/domain/savedvehicle"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
)

type SavedVehicleGormRepository struct {
	db *transaction.Database
}

func NewSavedVehicleGormRepository(db *transaction.Database) domain.SavedVehicleRepository {
	return &SavedVehicleGormRepository{
		db: db,
	}
}

func (r *SavedVehicleGormRepository) Create(ctx context.Context, v *domain.SavedVehicle) error {
	model := dbschema.NewSchemaSavedVehicle(v)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	v.ID = model.ID
	return nil
}

func (r *SavedVehicleGormRepository) Delete(ctx context.Context, userID string, listingID string) (bool, error) {
	result := r.db.GetTx(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&dbschema.SavedVehicle{})
	return result.RowsAffected > 0, result.Error
}

func (r *SavedVehicleGormRepository) Find(ctx context.Context, userID string, listingID string) (*domain.SavedVehicle, error) {
	var model dbschema.SavedVehicle
	if err := r.db.GetTx(ctx).Where("user_id = ? AND listing_id = ?", userID, listingID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "saved vehicle", listingID)
	}
	return model.EtoD(), nil
}

func (r *SavedVehicleGormRepository) FindByUser(ctx context.Context, userID string) ([]*domain.SavedVehicle, error) {
	var rows []*dbschema.SavedVehicle
	if err := r.db.GetTx(ctx).Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.SavedVehicle) *domain.SavedVehicle {
		return item.EtoD()
	}), nil
}
