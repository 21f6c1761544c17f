package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTest opens a private in-memory sqlite database, migrates it and installs it
// as DB for the duration of the test.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	prev := DB
	DB = db
	t.Cleanup(func() {
		DB = prev
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
