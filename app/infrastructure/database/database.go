package database

import (
	"evmarket.io/marketplace-api/app/utils/logger"
	"evmarket.io/marketplace-api/config/environment_variables"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

var SchemaRegistry []interface{}

func RegisterSchemaForAutoMigrate(models ...interface{}) {
	SchemaRegistry = append(SchemaRegistry, models...)
}

var DB *gorm.DB

// GormConfig is shared by the server and the repository tests so table names match.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	}
}

func NewDB() (*gorm.DB, error) {
	env := environment_variables.EnvironmentVariables
	db, err := gorm.Open(postgres.Open(env.DB_POSTGRESQL_WRITE_DSN), GormConfig())
	if err != nil {
		logger.GetLogger().
			WithField("error_code", "5c16fb53-d98c-4fc6-8bb4-9abd3c0b9e88").
			Errorf("unable to connect to database: %v", err)
		return nil, err
	}
	if env.DB_POSTGRESQL_READ1_DSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(env.DB_POSTGRESQL_READ1_DSN)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			logger.GetLogger().
				WithField("error_code", "9fab4b2e-1d70-4a4e-928a-5e81c7ee06de").
				Errorf("unable to connect to setup replica: %v", err)
			return nil, err
		}
	}

	if env.DB_AUTO_MIGRATE {
		if err := NewDBMigrator(db).Migrate(); err != nil {
			logger.GetLogger().
				WithField("error_code", "75333e43-8157-4f0a-8e34-aa34e6e7c285").
				Errorf("failed to migrate schema: %v", err)
			return nil, err
		}
	}

	DB = db
	return DB, nil
}
