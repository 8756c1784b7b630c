// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory SQLite database private to t.
func Open(t testing.TB) (database.Database, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(database.Options{
		Type:     database.TypeSQLite,
		URL:      dsn,
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)

	d := database.New(db)
	require.NoError(t, d.Migrate())
	t.Cleanup(func() { _ = d.Close() })
	return d, db
}
