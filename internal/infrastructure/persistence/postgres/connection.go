// Package postgres provides PostgreSQL database setup for production
// deployments.
package postgres

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avionmeals/backend/internal/infrastructure/config"
	gormModels "github.com/avionmeals/backend/internal/infrastructure/persistence/gorm"
)

// SetupDatabase opens a PostgreSQL connection with pooling configured from
// the database section of the configuration.
func SetupDatabase(cfg config.DatabaseConfig, dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if cfg.AutoMigrate {
		if err := gormModels.Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}
