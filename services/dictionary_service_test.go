package services

import (
	"testing"

	"github.com/z-haral/Halal-Checker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryServiceLoad(t *testing.T) {
	t.Run("lowercases keys and keeps load order", func(t *testing.T) {
		db := newTestDB(t)
		seedDictionary(t, db,
			models.DictionaryEntry{Name: "Gelatin", RiskLevel: models.RiskHigh, Explanation: "animal-derived"},
			models.DictionaryEntry{Name: "CARMINE", RiskLevel: models.RiskHigh, Explanation: "insects (E120)"},
			models.DictionaryEntry{Name: "whey", RiskLevel: models.RiskLow, Explanation: "dairy by-product"},
		)

		dict, err := NewDictionaryService(db).Load()
		require.NoError(t, err)
		require.Equal(t, 3, dict.Len())

		entries := dict.Entries()
		assert.Equal(t, "gelatin", entries[0].Name)
		assert.Equal(t, "carmine", entries[1].Name)
		assert.Equal(t, "whey", entries[2].Name)
	})

	t.Run("key collision keeps first position, last value", func(t *testing.T) {
		db := newTestDB(t)
		seedDictionary(t, db,
			models.DictionaryEntry{Name: "Milk", RiskLevel: models.RiskLow, Explanation: "first"},
			models.DictionaryEntry{Name: "gelatin", RiskLevel: models.RiskHigh, Explanation: "animal-derived"},
			models.DictionaryEntry{Name: "milk", RiskLevel: models.RiskMedium, Explanation: "second"},
		)

		dict, err := NewDictionaryService(db).Load()
		require.NoError(t, err)
		require.Equal(t, 2, dict.Len())

		entries := dict.Entries()
		assert.Equal(t, "milk", entries[0].Name)
		assert.Equal(t, models.RiskMedium, entries[0].RiskLevel)
		assert.Equal(t, "second", entries[0].Explanation)
		assert.Equal(t, "gelatin", entries[1].Name)
	})

	t.Run("store failure degrades to empty dictionary", func(t *testing.T) {
		db := newTestDB(t)
		require.NoError(t, db.Migrator().DropTable(&models.DictionaryEntry{}))

		dict, err := NewDictionaryService(db).Load()
		assert.ErrorIs(t, err, ErrDictionaryLoad)
		require.NotNil(t, dict)
		assert.Equal(t, 0, dict.Len())

		// Analysis still runs, it just finds nothing.
		result := AnalyzeText("Sugar, Gelatin", dict)
		assert.Empty(t, result.Findings)
		assert.Equal(t, models.RiskLow, result.HighestRisk)
	})
}

func TestDictionaryServiceCache(t *testing.T) {
	db := newTestDB(t)
	seedDictionary(t, db,
		models.DictionaryEntry{Name: "gelatin", RiskLevel: models.RiskHigh, Explanation: "animal-derived"},
	)
	svc := NewDictionaryService(db)

	dict := svc.Current()
	require.Equal(t, 1, dict.Len())

	// New rows are invisible until a refresh.
	seedDictionary(t, db,
		models.DictionaryEntry{Name: "carmine", RiskLevel: models.RiskHigh, Explanation: "insects"},
	)
	assert.Equal(t, 1, svc.Current().Len())

	refreshed, err := svc.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed.Len())
	assert.Equal(t, 2, svc.Current().Len())
}

func TestDictionaryServiceUpsertEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewDictionaryService(db)

	t.Run("inserts new entries lowercased", func(t *testing.T) {
		entry, err := svc.UpsertEntry("  Pork Gelatin ", models.RiskHigh, "pork-derived")
		require.NoError(t, err)
		assert.Equal(t, "pork gelatin", entry.Name)
	})

	t.Run("updates existing entries in place", func(t *testing.T) {
		first, err := svc.UpsertEntry("whey", models.RiskLow, "usually fine")
		require.NoError(t, err)

		second, err := svc.UpsertEntry("Whey", models.RiskMedium, "depends on enzymes")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, models.RiskMedium, second.RiskLevel)

		var count int64
		require.NoError(t, db.Model(&models.DictionaryEntry{}).Where("name = ?", "whey").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := svc.UpsertEntry("   ", models.RiskLow, "")
		assert.Error(t, err)

		_, err = svc.UpsertEntry("alcohol", models.RiskLevel("severe"), "")
		assert.Error(t, err)
	})
}
