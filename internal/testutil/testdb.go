// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/Kerhoff/tripplanner/internal/config"
	"github.com/Kerhoff/tripplanner/pkg/logger"
)

// NewTestDB creates a SQLite database in a temp directory with all
// migrations applied. A file is used instead of :memory: because every pooled
// connection would otherwise see its own empty database. The database is
// closed when the test completes.
func NewTestDB(t *testing.T) *config.Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tripplanner.db")
	database, err := config.NewDatabase("sqlite://"+path, logger.Discard())
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	if err := database.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return database
}
