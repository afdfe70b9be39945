package database

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DatabaseMigration struct {
	gorm.Model
	Version int64 `gorm:"not null;uniqueIndex"`
}

// Migration is a data change applied once, after the registered schemas
// have been auto-migrated.
type Migration struct {
	Version int64
	Name    string
	Up      func(tx *gorm.DB) error
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "default listing status",
		Up: func(tx *gorm.DB) error {
			return tx.Exec("UPDATE listing SET status = ? WHERE status = '' OR status IS NULL", "active").Error
		},
	},
	{
		Version: 2,
		Name:    "default user role",
		Up: func(tx *gorm.DB) error {
			return tx.Exec("UPDATE \"user\" SET role = ? WHERE role = '' OR role IS NULL", "buyer").Error
		},
	},
}

func Migrations() []Migration {
	sorted := slices.Clone(migrations)
	slices.SortFunc(sorted, func(a, b Migration) int {
		switch {
		case a.Version < b.Version:
			return -1
		case a.Version > b.Version:
			return 1
		}
		return 0
	})
	return sorted
}

type DBMigrator struct {
	db *gorm.DB
}

func NewDBMigrator(db *gorm.DB) *DBMigrator {
	return &DBMigrator{
		db: db,
	}
}

func (d *DBMigrator) initialize(ctx context.Context) error {
	db := d.db.WithContext(ctx)
	if err := db.AutoMigrate(&DatabaseMigration{}); err != nil {
		return fmt.Errorf("failed to create 'database_migration' table: %w", err)
	}
	for _, model := range SchemaRegistry {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to auto migrate schema: %T, error: %w", model, err)
		}
	}

	var count int64
	if err := db.Model(&DatabaseMigration{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to query migration records: %w", err)
	}
	if count == 0 {
		if err := db.Create(&DatabaseMigration{Version: 0}).Error; err != nil {
			return fmt.Errorf("failed to insert initial migration record: %w", err)
		}
	}
	return nil
}

func (d *DBMigrator) lockVersion(tx *gorm.DB) (DatabaseMigration, error) {
	var m DatabaseMigration
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Order("id").First(&m).Error
	return m, err
}

// Migrate creates or updates every registered table and then applies the
// pending data migrations inside one transaction holding the version row.
func (d *DBMigrator) Migrate() error {
	ctx := context.Background()
	if err := d.initialize(ctx); err != nil {
		return err
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := d.lockVersion(tx)
		if err != nil {
			return fmt.Errorf("failed to lock migration version: %w", err)
		}
		applied := current.Version
		for _, m := range Migrations() {
			if m.Version <= applied {
				continue
			}
			if err := m.Up(tx); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
			}
			applied = m.Version
		}
		if applied == current.Version {
			return nil
		}
		current.Version = applied
		return tx.Save(&current).Error
	})
}

// CurrentVersion reports the last applied data migration.
func (d *DBMigrator) CurrentVersion(ctx context.Context) (int64, error) {
	var m DatabaseMigration
	if err := d.db.WithContext(ctx).Order("id").First(&m).Error; err != nil {
		return 0, err
	}
	return m.Version, nil
}
