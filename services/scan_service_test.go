package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/z-haral/Halal-Checker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIngredients(t *testing.T) {
	t.Run("splits on all delimiters and cleans tokens", func(t *testing.T) {
		tokens := NormalizeIngredients("Sugar, Gelatin; Wheat Flour\nCarmine. Water")
		assert.Equal(t, []string{"sugar", "gelatin", "wheat flour", "carmine", "water"}, tokens)
	})

	t.Run("drops empty pieces", func(t *testing.T) {
		tokens := NormalizeIngredients(",, Sugar,, ;\n.")
		assert.Equal(t, []string{"sugar"}, tokens)
	})

	t.Run("empty input yields no tokens", func(t *testing.T) {
		assert.Empty(t, NormalizeIngredients(""))
		assert.Empty(t, NormalizeIngredients("   \n  ,;."))
	})

	t.Run("no token carries surrounding whitespace", func(t *testing.T) {
		tokens := NormalizeIngredients("  Sugar ,  Vegetable Fat\t; Gelatin  ")
		for _, tok := range tokens {
			assert.Equal(t, strings.TrimSpace(tok), tok)
			assert.NotEmpty(t, tok)
		}
	})

	t.Run("idempotent over its own output", func(t *testing.T) {
		first := NormalizeIngredients("Sugar, Gelatin; Carmine\nWater")
		second := NormalizeIngredients(strings.Join(first, ","))
		assert.Equal(t, first, second)
	})
}

func scenarioDict() *RiskDictionary {
	return testDict(
		models.DictionaryEntry{Name: "gelatin", RiskLevel: models.RiskHigh, Explanation: "animal-derived"},
		models.DictionaryEntry{Name: "sugar", RiskLevel: models.RiskLow, Explanation: "plant-derived"},
	)
}

func TestMatchIngredients(t *testing.T) {
	t.Run("matches tokens in input order", func(t *testing.T) {
		findings := MatchIngredients([]string{"sugar", "gelatin", "water"}, scenarioDict())
		require.Len(t, findings, 2)
		assert.Equal(t, "sugar", findings[0].OriginalToken)
		assert.Equal(t, models.RiskLow, findings[0].RiskLevel)
		assert.Equal(t, "plant-derived", findings[0].Explanation)
		assert.Equal(t, "gelatin", findings[1].OriginalToken)
		assert.Equal(t, models.RiskHigh, findings[1].RiskLevel)
	})

	t.Run("containment matches substrings", func(t *testing.T) {
		dict := testDict(models.DictionaryEntry{Name: "milk", RiskLevel: models.RiskMedium, Explanation: "dairy"})
		findings := MatchIngredients([]string{"buttermilk"}, dict)
		require.Len(t, findings, 1)
		assert.Equal(t, "buttermilk", findings[0].OriginalToken)
		assert.Equal(t, "milk", findings[0].MatchedOn)
		assert.Equal(t, models.RiskMedium, findings[0].RiskLevel)
	})

	t.Run("first entry in load order wins", func(t *testing.T) {
		dict := testDict(
			models.DictionaryEntry{Name: "pork", RiskLevel: models.RiskHigh, Explanation: "pork"},
			models.DictionaryEntry{Name: "gelatin", RiskLevel: models.RiskMedium, Explanation: "gelatin"},
		)
		findings := MatchIngredients([]string{"pork gelatin"}, dict)
		require.Len(t, findings, 1)
		assert.Equal(t, "pork", findings[0].MatchedOn)
		assert.Equal(t, models.RiskHigh, findings[0].RiskLevel)
	})

	t.Run("unmatched tokens produce nothing", func(t *testing.T) {
		findings := MatchIngredients([]string{"water", "salt"}, scenarioDict())
		assert.Empty(t, findings)
	})

	t.Run("empty dictionary matches nothing", func(t *testing.T) {
		findings := MatchIngredients([]string{"gelatin"}, NewRiskDictionary())
		assert.Empty(t, findings)
	})
}

func TestHighestRisk(t *testing.T) {
	assert.Equal(t, models.RiskLow, HighestRisk(nil))
	assert.Equal(t, models.RiskLow, HighestRisk([]Finding{}))
	assert.Equal(t, models.RiskLow, HighestRisk([]Finding{{RiskLevel: models.RiskLow}}))
	assert.Equal(t, models.RiskMedium, HighestRisk([]Finding{
		{RiskLevel: models.RiskLow}, {RiskLevel: models.RiskMedium},
	}))
	assert.Equal(t, models.RiskHigh, HighestRisk([]Finding{
		{RiskLevel: models.RiskMedium}, {RiskLevel: models.RiskHigh}, {RiskLevel: models.RiskLow},
	}))
}

func TestAnalyzeText(t *testing.T) {
	t.Run("full pipeline", func(t *testing.T) {
		result := AnalyzeText("Sugar, Gelatin, Water", scenarioDict())
		assert.Equal(t, "Sugar, Gelatin, Water", result.IngredientsText)
		require.Len(t, result.Findings, 2)
		assert.Equal(t, models.RiskHigh, result.HighestRisk)
	})

	t.Run("empty input is low risk", func(t *testing.T) {
		result := AnalyzeText("", scenarioDict())
		assert.Empty(t, result.Findings)
		assert.Equal(t, models.RiskLow, result.HighestRisk)
	})
}

// blockingExtractor parks in ExtractIngredients until released, so tests
// can observe the session mid-analysis.
type blockingExtractor struct {
	entered chan struct{}
	release chan struct{}
	text    string
	err     error
}

func (b *blockingExtractor) ExtractIngredients(_ context.Context, _ string) (string, error) {
	close(b.entered)
	<-b.release
	return b.text, b.err
}

func newScanServiceForTest(t *testing.T, extractor IngredientExtractor) *ScanService {
	t.Helper()
	db := newTestDB(t)
	seedDictionary(t, db,
		models.DictionaryEntry{Name: "gelatin", RiskLevel: models.RiskHigh, Explanation: "animal-derived"},
		models.DictionaryEntry{Name: "sugar", RiskLevel: models.RiskLow, Explanation: "plant-derived"},
	)
	return NewScanService(NewDictionaryService(db), extractor)
}

func TestScanServiceSingleFlight(t *testing.T) {
	ext := &blockingExtractor{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		text:    "Sugar, Gelatin",
	}
	svc := newScanServiceForTest(t, ext)

	type analyzeOut struct {
		res *ScanResult
		err error
	}
	done := make(chan analyzeOut, 1)
	go func() {
		res, err := svc.AnalyzeImage(context.Background(), 1, "data:image/jpeg;base64,Zm9v")
		done <- analyzeOut{res, err}
	}()

	// Extraction is outstanding: a second analyze on the same session must
	// be rejected, while another user's session is unaffected.
	<-ext.entered
	_, err := svc.Analyze(1, "Water")
	assert.ErrorIs(t, err, ErrScanInProgress)

	_, err = svc.Analyze(2, "Water")
	assert.NoError(t, err)

	close(ext.release)
	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, models.RiskHigh, out.res.HighestRisk)
	assert.Equal(t, out.res, svc.Session(1).Result())

	// Back to idle: a re-run is permitted and replaces the result.
	res2, err := svc.Analyze(1, "Water")
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, res2.HighestRisk)
	assert.Equal(t, res2, svc.Session(1).Result())
}

func TestScanServiceExtractionFailure(t *testing.T) {
	ext := &blockingExtractor{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		err:     errors.New("ocr unavailable"),
	}
	close(ext.release)
	svc := newScanServiceForTest(t, ext)

	_, err := svc.AnalyzeImage(context.Background(), 1, "data:image/jpeg;base64,Zm9v")
	require.Error(t, err)

	// The session returned to idle so a retry is possible, and the failed
	// run retained no result.
	assert.Nil(t, svc.Session(1).Result())
	_, err = svc.Analyze(1, "Sugar")
	assert.NoError(t, err)
}

func TestScanSessionSaveGuard(t *testing.T) {
	sess := &ScanSession{}

	require.NoError(t, sess.BeginSave())
	assert.ErrorIs(t, sess.BeginSave(), ErrSaveInProgress)

	sess.EndSave()
	assert.NoError(t, sess.BeginSave())
}
