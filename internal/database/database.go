package database

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gachaactu/backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open opens a connection with the given driver ("postgres" or "sqlite") without
// touching the package-level DB.
func Open(driver, dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         customLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return db, nil
}

// Connect initializes the package-level connection.
func Connect(driver, dsn string) error {
	db, err := Open(driver, dsn, logger.Warn)
	if err != nil {
		return err
	}
	DB = db
	slog.Info("database connection established", "driver", driver)
	return nil
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Platform{},
		&models.Game{},
		&models.Tag{},
		&models.SeoKeyword{},
		&models.Article{},
		&models.Guide{},
		&models.GuideSection{},
		&models.YouTubeVideo{},
		&models.TierList{},
		&models.MaintenanceSettings{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	slog.Info("database migrated successfully")
	return nil
}
