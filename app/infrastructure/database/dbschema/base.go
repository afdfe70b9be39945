package dbschema

import (
	"errors"
	"fmt"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/query"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NotFound converts gorm's missing-row error into common.ErrNotFound.
func NotFound(err error, entity string, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", entity, id, common.ErrNotFound)
	}
	return err
}

// Paginate applies limit, offset and created_at ordering. A nil p returns every row oldest first.
func Paginate(tx *gorm.DB, p *query.Pagination) *gorm.DB {
	if p == nil {
		return tx.Order("created_at asc, id asc")
	}
	if p.Order == "asc" {
		tx = tx.Order("created_at asc, id asc")
	} else {
		tx = tx.Order("created_at desc, id desc")
	}
	if p.Limit > 0 {
		tx = tx.Limit(p.Limit).Offset(p.Offset())
	}
	return tx
}
