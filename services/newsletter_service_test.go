package services

import (
	"testing"
	"time"

	"github.com/z-haral/Halal-Checker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWeeklyDigest(t *testing.T) {
	db := newTestDB(t)
	svc := NewNewsletterService(db)

	t.Run("no flagged products", func(t *testing.T) {
		body, count, err := svc.BuildWeeklyDigest(time.Now())
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Contains(t, body, "No new high-risk products were flagged this week.")
	})

	t.Run("only recent high-risk products are listed", func(t *testing.T) {
		fresh := models.Product{Name: "Gummy Bears", Brand: "Haribo", RiskLevel: models.RiskHigh, IngredientsText: "gelatin"}
		stale := models.Product{Name: "Old Candy", RiskLevel: models.RiskHigh, IngredientsText: "carmine"}
		medium := models.Product{Name: "Soft Cheese", RiskLevel: models.RiskMedium, IngredientsText: "rennet"}
		require.NoError(t, db.Create(&fresh).Error)
		require.NoError(t, db.Create(&stale).Error)
		require.NoError(t, db.Create(&medium).Error)

		// Age the stale product out of the digest window.
		require.NoError(t, db.Model(&stale).
			UpdateColumn("updated_at", time.Now().AddDate(0, 0, -8)).Error)

		body, count, err := svc.BuildWeeklyDigest(time.Now())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Contains(t, body, "Gummy Bears (Haribo)")
		assert.Contains(t, body, "Risk Level: HIGH")
		assert.NotContains(t, body, "Old Candy")
		assert.NotContains(t, body, "Soft Cheese")
	})
}
