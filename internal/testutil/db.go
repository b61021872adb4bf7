package testutil

import (
	"database/sql"
	"esc-cup/internal/database"
	"esc-cup/internal/db"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// NewDB opens a migrated SQLite database in a per-test temp directory.
func NewDB(t *testing.T) (*sql.DB, *db.Queries) {
	t.Helper()

	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	return sqlDB, db.New(sqlDB)
}

func Int64(v int64) *int64 { return &v }

func Int(v int) *int { return &v }
