// Package databasetest opens migrated in-memory SQLite databases for repository tests.
package databasetest

import (
	"testing"

	"evmarket.io/marketplace-api/app/infrastructure/database"
	_ "evmarket.io/marketplace-api/app/infrastructure/database/dbschema"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database with every registered schema migrated.
// The pool is capped at one connection so all queries see the same memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	config := database.GormConfig()
	config.Logger = logger.Default.LogMode(logger.Silent)
	db, err := gorm.Open(sqlite.Open(":memory:"), config)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.NewDBMigrator(db).Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// OpenDatabase wraps Open for repositories.
func OpenDatabase(t testing.TB) *transaction.Database {
	t.Helper()
	return transaction.NewDatabase(Open(t))
}
