package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/z-haral/Halal-Checker/models"
)

var (
	// ErrScanInProgress rejects a second Analyze while one is outstanding
	// on the same session.
	ErrScanInProgress = errors.New("an analysis is already in progress")

	// ErrSaveInProgress rejects a double-submitted save on the same session.
	ErrSaveInProgress = errors.New("a save is already in progress")
)

// Finding is one token matched against the dictionary. Risk level and
// explanation are copied verbatim from the matching entry.
type Finding struct {
	OriginalToken string           `json:"original"`
	MatchedOn     string           `json:"matched_on"`
	RiskLevel     models.RiskLevel `json:"risk_level"`
	Explanation   string           `json:"explanation"`
}

type ScanResult struct {
	IngredientsText string           `json:"ingredients_text"`
	Findings        []Finding        `json:"findings"`
	HighestRisk     models.RiskLevel `json:"highest_risk"`
}

// IngredientExtractor pulls an ingredient list out of a label image.
// Implemented by OCRService; faked in tests.
type IngredientExtractor interface {
	ExtractIngredients(ctx context.Context, imageDataURI string) (string, error)
}

var ingredientSplit = regexp.MustCompile(`[,;\n.]`)

// NormalizeIngredients splits raw label text into cleaned tokens:
// lowercased, trimmed, empties dropped, input order kept. Pure function.
func NormalizeIngredients(raw string) []string {
	parts := ingredientSplit.Split(strings.ToLower(raw), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// MatchIngredients checks each token against the dictionary in load order
// and records the first entry whose name is contained in the token. At most
// one finding per token; unmatched tokens produce nothing. Containment is
// deliberate: "milk" flags "buttermilk" too.
func MatchIngredients(tokens []string, dict *RiskDictionary) []Finding {
	findings := []Finding{}
	for _, tok := range tokens {
		for _, e := range dict.Entries() {
			if strings.Contains(tok, e.Name) {
				findings = append(findings, Finding{
					OriginalToken: tok,
					MatchedOn:     e.Name,
					RiskLevel:     e.RiskLevel,
					Explanation:   e.Explanation,
				})
				break
			}
		}
	}
	return findings
}

// HighestRisk reduces findings to the overall level: high beats medium
// beats low, and no findings means low.
func HighestRisk(findings []Finding) models.RiskLevel {
	highest := models.RiskLow
	for _, f := range findings {
		if f.RiskLevel.Severity() > highest.Severity() {
			highest = f.RiskLevel
		}
	}
	return highest
}

// AnalyzeText runs the full normalize → match → aggregate pipeline.
func AnalyzeText(raw string, dict *RiskDictionary) *ScanResult {
	tokens := NormalizeIngredients(raw)
	findings := MatchIngredients(tokens, dict)
	return &ScanResult{
		IngredientsText: raw,
		Findings:        findings,
		HighestRisk:     HighestRisk(findings),
	}
}

type sessionState int

const (
	sessionIdle sessionState = iota
	sessionAnalyzing
)

// ScanSession holds the per-user busy flags and the single retained
// result. Overlapping analyzes (including the extraction step) and
// overlapping saves are rejected rather than run in parallel.
type ScanSession struct {
	mu     sync.Mutex
	state  sessionState
	saving bool
	result *ScanResult
}

func (s *ScanSession) beginAnalyze() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == sessionAnalyzing {
		return ErrScanInProgress
	}
	s.state = sessionAnalyzing
	s.result = nil
	return nil
}

func (s *ScanSession) endAnalyze(res *ScanResult) {
	s.mu.Lock()
	s.state = sessionIdle
	s.result = res
	s.mu.Unlock()
}

// BeginSave marks the session as saving; callers must pair it with EndSave.
func (s *ScanSession) BeginSave() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrSaveInProgress
	}
	s.saving = true
	return nil
}

func (s *ScanSession) EndSave() {
	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
}

// Result returns the retained result of the most recent successful analyze,
// or nil if there is none.
func (s *ScanSession) Result() *ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// ScanService owns one session per user and drives the analysis pipeline
// against the cached dictionary.
type ScanService struct {
	dicts     *DictionaryService
	extractor IngredientExtractor

	mu       sync.Mutex
	sessions map[uint]*ScanSession
}

func NewScanService(dicts *DictionaryService, extractor IngredientExtractor) *ScanService {
	return &ScanService{
		dicts:     dicts,
		extractor: extractor,
		sessions:  make(map[uint]*ScanSession),
	}
}

// Session returns the user's session, creating it on first use.
func (s *ScanService) Session(userID uint) *ScanSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[userID]
	if sess == nil {
		sess = &ScanSession{}
		s.sessions[userID] = sess
	}
	return sess
}

// Analyze scans raw ingredient text for the user. A run already in
// progress on the same session is rejected with ErrScanInProgress.
func (s *ScanService) Analyze(userID uint, raw string) (*ScanResult, error) {
	sess := s.Session(userID)
	if err := sess.beginAnalyze(); err != nil {
		return nil, err
	}
	res := AnalyzeText(raw, s.dicts.Current())
	sess.endAnalyze(res)
	return res, nil
}

// AnalyzeImage extracts the ingredient list from a label image and then
// analyzes it. The session stays busy through the extraction call, so a
// concurrent Analyze is rejected while OCR is outstanding.
func (s *ScanService) AnalyzeImage(ctx context.Context, userID uint, imageDataURI string) (*ScanResult, error) {
	sess := s.Session(userID)
	if err := sess.beginAnalyze(); err != nil {
		return nil, err
	}

	text, err := s.extractor.ExtractIngredients(ctx, imageDataURI)
	if err != nil {
		sess.endAnalyze(nil)
		return nil, fmt.Errorf("ingredient extraction failed: %w", err)
	}

	res := AnalyzeText(text, s.dicts.Current())
	sess.endAnalyze(res)
	return res, nil
}
