// Package bias detects dictionary-defined biased language in job ads and
// scores how inclusive the text is.
//
// The pipeline is Matcher -> ContextFilter -> Scorer -> RecommendationEngine.
// Every stage is a pure function of its inputs; a TermDictionary and Config
// can be shared by any number of concurrent analyses.
package bias

import (
	"io"
	"log/slog"
	"strings"
)

// Analyser binds a dictionary, a scoring configuration and a sentence
// segmenter so the same setup can analyse many texts.
type Analyser struct {
	dict      *TermDictionary
	cfg       Config
	segmenter SentenceSegmenter
	logger    *slog.Logger

	matcher   *Matcher
	filter    *ContextFilter
	scorer    *Scorer
	recEngine *RecommendationEngine
}

// Option customizes an Analyser
type Option func(*Analyser)

// WithLogger sets the logger used for per-analysis debug output
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyser) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyser validates cfg and builds an Analyser. seg may be nil, in which
// case contexts fall back to a fixed window around each match.
func NewAnalyser(dict *TermDictionary, cfg Config, seg SentenceSegmenter, opts ...Option) (*Analyser, error) {
	scorer, err := NewScorer(cfg)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, &DictionaryError{Reason: "dictionary is required"}
	}

	a := &Analyser{
		dict:      dict,
		cfg:       cfg,
		segmenter: seg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		matcher:   NewMatcher(dict),
		filter:    NewContextFilter(cfg.MaxContexts, cfg.ContextWindow),
		scorer:    scorer,
		recEngine: NewRecommendationEngine(cfg.GradeThresholds),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Dictionary returns the dictionary the analyser matches against
func (a *Analyser) Dictionary() *TermDictionary {
	return a.dict
}

// Config returns the scoring configuration
func (a *Analyser) Config() Config {
	return a.cfg
}

// Analyse runs the full pipeline over text
func (a *Analyser) Analyse(text string) (*AnalysisResult, error) {
	var spans []Span
	if a.segmenter != nil {
		spans = a.segmenter.Segment(text)
	}

	matches := a.matcher.Match(text)
	flagged := a.filter.Filter(text, matches, spans)
	wordCount := len(strings.Fields(text))

	overall, err := a.scorer.OverallScore(flagged, wordCount)
	if err != nil {
		return nil, err
	}
	categories, err := a.scorer.CategoryScores(flagged)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		OverallScore:       overall,
		Grade:              a.scorer.Grade(overall),
		WordCount:          wordCount,
		FlaggedTerms:       flagged,
		CategoryScores:     categories,
		PositiveIndicators: DetectPositiveIndicators(text, a.cfg.PositiveIndicators),
	}
	if result.FlaggedTerms == nil {
		result.FlaggedTerms = []FlaggedTerm{}
	}
	if result.PositiveIndicators == nil {
		result.PositiveIndicators = []string{}
	}
	result.Recommendations = a.recEngine.Recommend(result)

	a.logger.Debug("analysed job ad",
		"words", wordCount,
		"raw_matches", len(matches),
		"flagged_terms", len(flagged),
		"score", overall,
		"grade", result.Grade,
	)
	return result, nil
}

// Analyse is the one-shot form of Analyser.Analyse. The configuration is
// validated before any matching happens.
func Analyse(text string, dict *TermDictionary, cfg Config, seg SentenceSegmenter) (*AnalysisResult, error) {
	a, err := NewAnalyser(dict, cfg, seg)
	if err != nil {
		return nil, err
	}
	return a.Analyse(text)
}
