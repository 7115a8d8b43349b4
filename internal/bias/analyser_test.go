package bias

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const biasedAd = "We need a young and energetic rockstar who thrives in a fast-paced environment."

const inclusiveAd = "We are an equal opportunity employer. We welcome applicants from all backgrounds " +
	"and offer a competitive salary, flexible working and accommodations available on request."

func TestAnalyse_BiasedAd(t *testing.T) {
	result, err := Analyse(biasedAd, testDictionary(t), DefaultConfig(), punctSegmenter{})
	require.NoError(t, err)

	assert.Equal(t, 13, result.WordCount)
	require.Len(t, result.FlaggedTerms, 2)
	assert.Equal(t, "young and energetic", result.FlaggedTerms[0].Term)
	assert.Equal(t, "rockstar", result.FlaggedTerms[1].Term)
	assert.Equal(t, []string{biasedAd}, result.FlaggedTerms[0].Contexts)

	assert.Less(t, result.OverallScore, 60.0)
	assert.Equal(t, GradePoor, result.Grade)

	gender, ok := result.CategoryScore(CategoryGenderCoded)
	require.True(t, ok)
	assert.InDelta(t, 85.0, gender.Score, 1e-9)
	assert.Equal(t, SeverityHigh, gender.MaxSeverity)

	assert.Equal(t, []string{
		"HIGH PRIORITY: Replace 2 strongly biased term(s) with neutral alternatives",
		"Significant revision recommended - focus on removing gendered, age-specific and exclusionary terms",
	}, result.Recommendations)
}

func TestAnalyse_BiasedAdWithHeavierHighMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeverityMultipliers[SeverityHigh] = 3.0

	result, err := Analyse(biasedAd, testDictionary(t), cfg, punctSegmenter{})
	require.NoError(t, err)

	for _, c := range []Category{CategoryGenderCoded, CategoryAgeist} {
		cs, ok := result.CategoryScore(c)
		require.True(t, ok)
		assert.Less(t, cs.Score, 75.0, c)
	}
	assert.Contains(t, result.Recommendations, "Review Gender Coded language: 1 issue(s) detected")
	assert.Contains(t, result.Recommendations, "Review Ageist language: 1 issue(s) detected")
}

func TestAnalyse_InclusiveAd(t *testing.T) {
	result, err := Analyse(inclusiveAd, testDictionary(t), DefaultConfig(), punctSegmenter{})
	require.NoError(t, err)

	assert.Empty(t, result.FlaggedTerms)
	assert.NotNil(t, result.FlaggedTerms)
	assert.Equal(t, 100.0, result.OverallScore)
	assert.Equal(t, GradeExcellent, result.Grade)
	assert.Equal(t, []string{"No biased language detected - great job!"}, result.Recommendations)
	assert.Equal(t, []string{
		"equal opportunity employer",
		"accommodations available",
		"flexible working",
		"all backgrounds",
	}, result.PositiveIndicators)

	for _, cs := range result.CategoryScores {
		assert.Equal(t, 100.0, cs.Score)
		assert.Equal(t, SeverityNone, cs.MaxSeverity)
	}
}

func TestAnalyse_EmptyText(t *testing.T) {
	result, err := Analyse("", testDictionary(t), DefaultConfig(), nil)
	require.NoError(t, err)

	assert.Zero(t, result.WordCount)
	assert.Equal(t, 100.0, result.OverallScore)
	assert.Len(t, result.CategoryScores, len(Categories))
	assert.NotNil(t, result.PositiveIndicators)
}

func TestAnalyse_Idempotent(t *testing.T) {
	a, err := NewAnalyser(testDictionary(t), DefaultConfig(), punctSegmenter{})
	require.NoError(t, err)

	first, err := a.Analyse(biasedAd)
	require.NoError(t, err)
	second, err := a.Analyse(biasedAd)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyse_ConcurrentUse(t *testing.T) {
	a, err := NewAnalyser(testDictionary(t), DefaultConfig(), punctSegmenter{})
	require.NoError(t, err)

	want, err := a.Analyse(biasedAd)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*AnalysisResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = a.Analyse(biasedAd)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestAnalyse_InvalidConfigFailsFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CategoryWeights[CategoryRacial] = 0.5

	_, err := Analyse(biasedAd, nil, cfg, nil)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)

	var dictErr *DictionaryError
	assert.False(t, errors.As(err, &dictErr))
}

func TestNewAnalyser_NilDictionary(t *testing.T) {
	_, err := NewAnalyser(nil, DefaultConfig(), nil)
	var dictErr *DictionaryError
	assert.ErrorAs(t, err, &dictErr)
}
