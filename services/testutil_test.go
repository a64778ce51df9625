package services

import (
	"fmt"
	"testing"

	"github.com/z-haral/Halal-Checker/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database and migrates the schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.DictionaryEntry{},
		&models.Product{},
		&models.SavedProduct{},
		&models.UserDevice{},
	))
	return db
}

// testDict builds an in-memory dictionary without touching the store.
func testDict(entries ...models.DictionaryEntry) *RiskDictionary {
	dict := NewRiskDictionary()
	for _, e := range entries {
		dict.add(e)
	}
	return dict
}

func seedDictionary(t *testing.T, db *gorm.DB, entries ...models.DictionaryEntry) {
	t.Helper()
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}
}
