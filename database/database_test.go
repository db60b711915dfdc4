// database_test.go - Tests for opening, migrating and seeding

package database

import (
	"path/filepath"
	"testing"

	"go-library-backend/config"
	"go-library-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Load()
	cfg.DBDriver = "sqlite"
	cfg.DBPath = filepath.Join(t.TempDir(), "test.db")
	cfg.DBLogLevel = "silent"
	return cfg
}

func TestConnectSeedsOnce(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, Connect(cfg))

	var admins, books, categories int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins)
	DB.Model(&models.Book{}).Count(&books)
	DB.Model(&models.Category{}).Count(&categories)
	assert.EqualValues(t, 1, admins)
	assert.EqualValues(t, len(sampleBooks), books)
	assert.EqualValues(t, len(defaultCategories), categories)

	// Re-running the seed on a populated database adds nothing.
	require.NoError(t, Seed(DB, cfg))
	DB.Model(&models.Book{}).Count(&books)
	assert.EqualValues(t, len(sampleBooks), books)
}

func TestSeedWithoutSamples(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedSampleData = false
	cfg.CreateAdmin = false

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, Seed(db, cfg))

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.Zero(t, users)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "oracle"
	_, err := Open(cfg)
	assert.Error(t, err)

	cfg.DBDriver = "postgres"
	cfg.DatabaseURL = ""
	_, err = Open(cfg)
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on", sqliteDSN("a.db"))
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", sqliteDSN("file::memory:?cache=shared"))
	assert.Equal(t, "a.db?_foreign_keys=off", sqliteDSN("a.db?_foreign_keys=off"))
}
