package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dining-status-backend/config"
	"dining-status-backend/internal/model"
)

// Init opens the Postgres connection and runs migrations.
func Init(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Info("running database migrations")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.EnableRangeIndexes {
		log.Info("applying status history range indexes")
		if err := applyRangeIndexes(db); err != nil {
			log.Warn("failed to apply range indexes, continuing without them", zap.Error(err))
		}
	}

	log.Info("database initialization complete")
	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Location{},
		&model.OpeningRange{},
		&model.LocationStatusOpen{},
		&model.LocationStatusHistory{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

func applyRangeIndexes(db *gorm.DB) error {
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		// Answers "what state was location X in at time T" with @>.
		"CREATE INDEX IF NOT EXISTS idx_location_status_history_period ON location_status_histories " +
			"USING GIST (location_id, tstzrange(period_start, period_end, '[)'));",

		"CREATE INDEX IF NOT EXISTS idx_location_status_history_location_observed ON location_status_histories (location_id, observed_at DESC);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
