package database

import (
	"fmt"
	"time"

	"splitHub/domain"
	"splitHub/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func InitPostgres(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.App.Environment == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the allocation tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Experiment{},
		&domain.Variant{},
		&domain.VisitorAssignment{},
		&domain.VariantStats{},
		&domain.AssignmentEvent{},
		&domain.BanditConfig{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
