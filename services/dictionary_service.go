package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/z-haral/Halal-Checker/models"

	"gorm.io/gorm"
)

// ErrDictionaryLoad signals that the dictionary could not be read from the
// store. Callers keep going with an empty dictionary (no matches possible)
// instead of failing the whole scan.
var ErrDictionaryLoad = errors.New("failed to load risk dictionary")

// RiskDictionary is the in-memory lookup the matcher runs against.
// Entries keep their load order so first-hit matching is stable; keys are
// lowercase and unique.
type RiskDictionary struct {
	entries []models.DictionaryEntry
	index   map[string]int
}

func NewRiskDictionary() *RiskDictionary {
	return &RiskDictionary{index: make(map[string]int)}
}

// add lowercases the entry name and inserts it. On a key collision the
// later row wins but keeps the earlier row's position, matching how the
// dictionary behaved when it was a plain keyed object.
func (d *RiskDictionary) add(e models.DictionaryEntry) {
	e.Name = strings.ToLower(strings.TrimSpace(e.Name))
	if e.Name == "" {
		return
	}
	if i, ok := d.index[e.Name]; ok {
		d.entries[i] = e
		return
	}
	d.index[e.Name] = len(d.entries)
	d.entries = append(d.entries, e)
}

// Entries returns the entries in load order.
func (d *RiskDictionary) Entries() []models.DictionaryEntry {
	return d.entries
}

func (d *RiskDictionary) Len() int {
	return len(d.entries)
}

// DictionaryService loads dictionary rows from the store and caches them
// for the matcher. The cache is refreshed independently of scans.
type DictionaryService struct {
	db *gorm.DB

	mu     sync.RWMutex
	cached *RiskDictionary
}

func NewDictionaryService(db *gorm.DB) *DictionaryService {
	return &DictionaryService{db: db}
}

// Load reads all dictionary rows in primary-key order. On a store failure
// it returns an empty dictionary alongside ErrDictionaryLoad so analysis
// can still run.
func (s *DictionaryService) Load() (*RiskDictionary, error) {
	dict := NewRiskDictionary()

	var rows []models.DictionaryEntry
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		return dict, fmt.Errorf("%w: %v", ErrDictionaryLoad, err)
	}

	for _, row := range rows {
		dict.add(row)
	}
	return dict, nil
}

// Current returns the cached dictionary, loading it on first use. A failed
// load is logged and yields an empty dictionary; the next call retries.
func (s *DictionaryService) Current() *RiskDictionary {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached
	}

	dict, err := s.Load()
	if err != nil {
		log.Printf("dictionary load failed, scans will find nothing: %v", err)
		return dict
	}

	s.mu.Lock()
	s.cached = dict
	s.mu.Unlock()
	return dict
}

// Refresh reloads the cache from the store.
func (s *DictionaryService) Refresh() (*RiskDictionary, error) {
	dict, err := s.Load()
	if err != nil {
		return dict, err
	}
	s.mu.Lock()
	s.cached = dict
	s.mu.Unlock()
	return dict, nil
}

// UpsertEntry inserts or updates a dictionary row keyed by its lowercase
// name. Used by the admin endpoint that curates the dictionary.
func (s *DictionaryService) UpsertEntry(name string, level models.RiskLevel, explanation string) (*models.DictionaryEntry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, errors.New("entry name is required")
	}
	switch level {
	case models.RiskLow, models.RiskMedium, models.RiskHigh:
	default:
		return nil, fmt.Errorf("unknown risk level %q", level)
	}

	var entry models.DictionaryEntry
	err := s.db.Where("name = ?", name).First(&entry).Error
	if err == nil {
		entry.RiskLevel = level
		entry.Explanation = explanation
		if err := s.db.Save(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry = models.DictionaryEntry{Name: name, RiskLevel: level, Explanation: explanation}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
