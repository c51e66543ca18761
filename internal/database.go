package internal

import (
	"fmt"

	"brief-portal/internal/config"
	"brief-portal/internal/logger"
	"brief-portal/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.Config, log *logger.Logger) error {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN())
	default:
		dialector = mysql.Open(cfg.Database.DSN())
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database connected and migrated", "driver", cfg.Database.Driver)
	return nil
}

func autoMigrate(db *gorm.DB) error {
	// Only the activity log is stored locally; briefs, templates and users
	// all live on the backend.
	if err := db.AutoMigrate(&models.ActivityLog{}); err != nil {
		return fmt.Errorf("failed to migrate activity_logs: %w", err)
	}
	return nil
}

func CloseDB() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
