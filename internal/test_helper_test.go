package internal

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"preview-api/apiv1"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates a temp-dir SQLite database with every model migrated
func setupTestDB(t *testing.T) *gorm.DB {
	tmpDir, err := os.MkdirTemp("", "testdb")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { cleanupTestDB(t, db) })

	if err := db.AutoMigrate(apiv1.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	var tables []string
	err = db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables).Error
	if err != nil {
		t.Fatalf("Failed to verify tables: %v", err)
	}
	for _, table := range []string{"skills", "interviewers", "users"} {
		if !slices.Contains(tables, table) {
			t.Fatalf("Required table %s was not created", table)
		}
	}

	return db
}

// cleanupTestDB closes the database connection
func cleanupTestDB(t *testing.T, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Failed to get underlying *sql.DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Failed to close database connection: %v", err)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
