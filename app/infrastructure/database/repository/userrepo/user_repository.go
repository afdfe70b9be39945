package userrepo

import (
	"context"
	"strings"

	"evmarket.io/marketplace-api/app/domain/query"
	domain "evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/utils/functional"
	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *transaction.Database
}

func NewUserGormRepository(db *transaction.Database) domain.UserRepository {
	return &UserGormRepository{
		db: db,
	}
}

func (r *UserGormRepository) Create(ctx context.Context, u *domain.User) error {
	model := dbschema.NewSchemaUser(u)
	if err := r.db.GetTx(ctx).Create(model).Error; err != nil {
		return err
	}
	u.ID = model.ID
	return nil
}

func (r *UserGormRepository) Update(ctx context.Context, u *domain.User) error {
	model := dbschema.NewSchemaUser(u)
	return r.db.GetTx(ctx).Save(model).Error
}

func (r *UserGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.GetTx(ctx).Delete(&dbschema.User{}, id).Error
}

func (r *UserGormRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var model dbschema.User
	if err := r.db.GetTx(ctx).First(&model, id).Error; err != nil {
		return nil, dbschema.NotFound(err, "user", "")
	}
	return model.EtoD(), nil
}

func (r *UserGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.User, error) {
	var model dbschema.User
	if err := r.db.GetTx(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "user", publicID)
	}
	return model.EtoD(), nil
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model dbschema.User
	if err := r.db.GetTx(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		return nil, dbschema.NotFound(err, "user", email)
	}
	return model.EtoD(), nil
}

func (r *UserGormRepository) FindByFilter(ctx context.Context, filter domain.UserFilter, p *query.Pagination) ([]*domain.User, error) {
	tx := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.User{}), filter)
	tx = dbschema.Paginate(tx, p)
	var rows []*dbschema.User
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.User) *domain.User {
		return item.EtoD()
	}), nil
}

func (r *UserGormRepository) Count(ctx context.Context, filter domain.UserFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.GetTx(ctx).Model(&dbschema.User{}), filter).Count(&count).Error
	return count, err
}

func (r *UserGormRepository) applyFilter(tx *gorm.DB, filter domain.UserFilter) *gorm.DB {
	if filter.PublicID != nil {
		tx = tx.Where("public_id = ?", *filter.PublicID)
	}
	if filter.Email != nil {
		tx = tx.Where("email = ?", *filter.Email)
	}
	if filter.Role != nil {
		tx = tx.Where("role = ?", string(*filter.Role))
	}
	if filter.Enabled != nil {
		tx = tx.Where("enabled = ?", *filter.Enabled)
	}
	if filter.Search != nil {
		term := "%" + strings.ToLower(*filter.Search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}
	return tx
}
