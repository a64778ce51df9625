package models

import "gorm.io/gorm"

// A risk dictionary row. Name is stored lowercase and matched by
// substring containment against scanned ingredient tokens.
type DictionaryEntry struct {
	gorm.Model
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	RiskLevel   RiskLevel `gorm:"type:varchar(16);not null" json:"risk_level"`
	Explanation string    `gorm:"type:text" json:"explanation"`
}
