package database

import (
	"fmt"

	"evaluation/internal/config"
	"evaluation/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with the configured driver and migrates the schema.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("%w: unknown db_driver %q", config.ErrInvalidConfig, cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// GormConfig silences gorm's own logger and turns driver constraint errors
// into gorm errors such as gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
}

// Migrate creates or updates the reviewer and audit log tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Reviewer{}, &model.AuditLog{}); err != nil {
		return fmt.Errorf("failed to auto-migrate the database: %w", err)
	}
	return nil
}
