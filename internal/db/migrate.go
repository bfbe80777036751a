package db

import (
	"fmt" // Error wrapping

	"finance_tracker/internal/config" // Driver selection
	"finance_tracker/internal/domain" // Importing domain models

	"github.com/glebarez/sqlite" // Pure Go SQLite driver for GORM
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM query logger
)

// Open connects to the configured database and returns the store handle
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector // Dialector for the chosen driver
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // Queries are not logged in production
		TranslateError: true,                                  // Surface unique violations as gorm.ErrDuplicatedKey
	}
	if !cfg.IsProd {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn) // Surface slow queries while developing
	}
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}
	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1) // SQLite serialises writers
	}
	return db, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Transaction{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
