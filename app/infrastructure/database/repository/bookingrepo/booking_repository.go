package bookingrepo

import (
	"context"

	domain "evmarket.io/marketplace-api/app/domain/booking"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
	"gorm.io/gorm"
)

type SlotGormRepository struct {
	db *transaction.Database
}

func NewSlotGormRepository(db *transaction.Database) domain.SlotRepository {
	return &SlotGormRepository{
		db: db,
	}
}

func (r *SlotGormRepository) Create(ctx context.Context, s *domain.Slot) error {
	model := dbschema.NewSchemaTestDriveSlot(s)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	s.ID = model.ID
	return nil
}

func (r *SlotGormRepository) Update(ctx context.Context, s *domain.Slot) error {
	return r.db.GetTx(ctx).Save(dbschema.NewSchemaTestDriveSlot(s)).Error
}

func (r *SlotGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Slot, error) {
	var model dbschema.TestDriveSlot
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "slot", publicID)
	}
	return model.EtoD(), nil
}

func (r *SlotGormRepository) FindByFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	tx := r.db.GetTx(ctx).Model(&dbschema.TestDriveSlot{})
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.SellerID != nil {
		tx = tx.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.ListingID != nil {
		tx = tx.Where("listing_id = ?", *filter.ListingID)
	}
	if filter.Active != nil {
		tx = tx.Where("active = ?", *filter.Active)
	}
	if filter.EndsAfter != nil {
		tx = tx.Where("end_time > ?", *filter.EndsAfter)
	}
	var rows []*dbschema.TestDriveSlot
	if err := tx.Order("start_time asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.TestDriveSlot) *domain.Slot {
		return item.EtoD()
	}), nil
}

type BookingGormRepository struct {
	db *transaction.Database
}

func NewBookingGormRepository(db *transaction.Database) domain.BookingRepository {
	return &BookingGormRepository{
		db: db,
	}
}

func (r *BookingGormRepository) Create(ctx context.Context, b *domain.Booking) error {
	model := dbschema.NewSchemaTestDriveBooking(b)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	b.ID = model.ID
	return nil
}

func (r *BookingGormRepository) Update(ctx context.Context, b *domain.Booking) error {
	return r.db.GetTx(ctx).Save(dbschema.NewSchemaTestDriveBooking(b)).Error
}

func (r *BookingGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Booking, error) {
	var model dbschema.TestDriveBooking
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "booking", publicID)
	}
	return model.EtoD(), nil
}

func (r *BookingGormRepository) FindByFilter(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	var rows []*dbschema.TestDriveBooking
	if err := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.TestDriveBooking{}), filter).
		Order("start_time asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.TestDriveBooking) *domain.Booking {
		return item.EtoD()
	}), nil
}

func (r *BookingGormRepository) applyFilter(tx *gorm.DB, filter domain.BookingFilter) *gorm.DB {
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.SlotID != nil {
		tx = tx.Where("slot_id = ?", *filter.SlotID)
	}
	if filter.UserID != nil {
		tx = tx.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		tx = tx.Where("status = ?", string(*filter.Status))
	}
	if filter.EndedBefore != nil {
		tx = tx.Where("end_time < ?", *filter.EndedBefore)
	}
	return tx
}
