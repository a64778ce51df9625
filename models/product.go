package models

import "gorm.io/gorm"

// A scanned product. Name is the sole identity; re-saving the same name
// overwrites the stored ingredients and risk (no versioning).
type Product struct {
	gorm.Model
	Name            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Brand           string    `json:"brand,omitempty"`
	IngredientsText string    `gorm:"type:text" json:"ingredients_text"`
	RiskLevel       RiskLevel `gorm:"type:varchar(16)" json:"risk_level"`
}
