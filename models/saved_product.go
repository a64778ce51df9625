package models

import "time"

// Link record putting a product into a user's history.
// One row per (user, product); repeated saves must not duplicate it.
type SavedProduct struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_user_product;not null"`
	ProductID uint `gorm:"uniqueIndex:idx_user_product;not null"`
	CreatedAt time.Time
}
