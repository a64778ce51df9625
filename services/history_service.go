package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/z-haral/Halal-Checker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProductNameRequired is returned before any store access when a
	// save arrives without a product name.
	ErrProductNameRequired = errors.New("product name is required")

	// ErrNoScanResult is returned when a save is requested but the session
	// has no retained analysis result.
	ErrNoScanResult = errors.New("no analysis result to save")

	// ErrPersistence wraps store read/write failures. The core does not
	// retry; both save steps are idempotent so the caller can.
	ErrPersistence = errors.New("persistence failure")
)

// HistoryEntry is one saved product in a user's history.
type HistoryEntry struct {
	Product models.Product `json:"product"`
	SavedAt time.Time      `json:"saved_at"`
}

// HistoryService persists scan results and reads them back per user.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Save upserts the product by name, then links it into the user's history.
// Both steps are keyed upserts, so repeating the call with the same inputs
// changes nothing — including after a failure between the two steps, which
// leaves an unlinked product row that the retry links.
func (s *HistoryService) Save(userID uint, productName string, result *ScanResult) (*models.Product, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, ErrProductNameRequired
	}
	if result == nil {
		return nil, ErrNoScanResult
	}

	product := models.Product{
		Name:            productName,
		IngredientsText: result.IngredientsText,
		RiskLevel:       result.HighestRisk,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"ingredients_text", "risk_level", "updated_at"}),
	}).Create(&product).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Re-read by name: on the conflict path the insert does not report the
	// existing row's id.
	if err := s.db.Where("name = ?", productName).First(&product).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	link := models.SavedProduct{UserID: userID, ProductID: product.ID}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(&link).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &product, nil
}

// ListHistory returns the user's saved products, newest save first.
func (s *HistoryService) ListHistory(userID uint) ([]HistoryEntry, error) {
	var links []models.SavedProduct
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	entries := make([]HistoryEntry, 0, len(links))
	for _, l := range links {
		var p models.Product
		if err := s.db.First(&p, l.ProductID).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		entries = append(entries, HistoryEntry{Product: p, SavedAt: l.CreatedAt})
	}
	return entries, nil
}
