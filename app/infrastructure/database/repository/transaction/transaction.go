package transaction

import (
	"context"

	"evmarket.io/marketplace-api/app/utils/contextkeys"
	"gorm.io/gorm"
)

// Database hands repositories either the pooled connection or the
// transaction carried by ctx, so services can group writes with WithTx.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetTx(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(contextkeys.TransactionContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

// WithTx runs fn in a transaction. Nested calls join the outer transaction.
func (d *Database) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(contextkeys.TransactionContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, contextkeys.TransactionContextKey{}, tx))
	})
}
