package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/z-haral/Halal-Checker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const offSearchURL = "https://world.openfoodfacts.org/cgi/search.pl"

// IngestService pulls products from Open Food Facts, risk-tags their
// ingredient lists with the dictionary matcher and upserts them into the
// catalog.
type IngestService struct {
	db     *gorm.DB
	dicts  *DictionaryService
	client *http.Client
}

func NewIngestService(db *gorm.DB, dicts *DictionaryService) *IngestService {
	return &IngestService{
		db:     db,
		dicts:  dicts,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type offSearchResponse struct {
	Products []struct {
		Code            string `json:"code"`
		ProductName     string `json:"product_name"`
		Brands          string `json:"brands"`
		IngredientsText string `json:"ingredients_text"`
	} `json:"products"`
}

// IngestCategory fetches up to pageSize products from one Open Food Facts
// category and upserts the usable ones. Returns how many were stored.
func (s *IngestService) IngestCategory(category string, pageSize int) (int, error) {
	if pageSize <= 0 {
		pageSize = 50
	}

	q := url.Values{}
	q.Set("action", "process")
	q.Set("tagtype_0", "categories")
	q.Set("tag_contains_0", "contains")
	q.Set("tag_0", category)
	q.Set("json", "true")
	q.Set("page_size", fmt.Sprintf("%d", pageSize))
	q.Set("fields", "code,product_name,brands,ingredients_text")

	resp, err := s.client.Get(offSearchURL + "?" + q.Encode())
	if err != nil {
		return 0, fmt.Errorf("failed to call Open Food Facts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read Open Food Facts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("open food facts API error %d: %s", resp.StatusCode, string(body))
	}

	var sr offSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return 0, fmt.Errorf("failed to parse Open Food Facts JSON: %w", err)
	}

	dict := s.dicts.Current()
	stored := 0
	for _, p := range sr.Products {
		if p.ProductName == "" || p.IngredientsText == "" {
			continue
		}

		result := AnalyzeText(p.IngredientsText, dict)
		product := models.Product{
			Name:            p.ProductName,
			Brand:           p.Brands,
			IngredientsText: p.IngredientsText,
			RiskLevel:       result.HighestRisk,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"brand", "ingredients_text", "risk_level", "updated_at"}),
		}).Create(&product).Error
		if err != nil {
			return stored, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		stored++
	}
	return stored, nil
}
