package bias

import (
	"fmt"
	"sort"
	"strings"
)

// RecommendationEngine turns a scored result into prioritized action items
type RecommendationEngine struct {
	reviewBelow      float64 // category scores under this get a review item
	significantBelow float64
	minorBelow       float64
}

// NewRecommendationEngine derives its cut points from the grade thresholds:
// categories under Good are reviewed, overall scores under Fair need
// significant revision and scores under Good need minor revision.
func NewRecommendationEngine(t GradeThresholds) *RecommendationEngine {
	return &RecommendationEngine{
		reviewBelow:      t.Good,
		significantBelow: t.Fair,
		minorBelow:       t.Good,
	}
}

// Recommend builds the ordered recommendation list for r.
// r.Recommendations is ignored.
func (e *RecommendationEngine) Recommend(r *AnalysisResult) []string {
	if len(r.FlaggedTerms) == 0 {
		return []string{"No biased language detected - great job!"}
	}

	var recs []string

	if n := r.CountBySeverity(SeverityCritical); n > 0 {
		recs = append(recs, fmt.Sprintf(
			"CRITICAL: Remove %d critically biased term(s) immediately - possible compliance risk under employment law", n))
	}
	if n := r.CountBySeverity(SeverityHigh); n > 0 {
		recs = append(recs, fmt.Sprintf(
			"HIGH PRIORITY: Replace %d strongly biased term(s) with neutral alternatives", n))
	}

	var weak []CategoryScore
	for _, cs := range r.CategoryScores {
		if cs.Score < e.reviewBelow {
			weak = append(weak, cs)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].Score < weak[j].Score })
	for _, cs := range weak {
		recs = append(recs, fmt.Sprintf("Review %s language: %d issue(s) detected", categoryLabel(cs.Category), cs.IssueCount))
	}

	switch {
	case r.OverallScore < e.significantBelow:
		recs = append(recs, "Significant revision recommended - focus on removing gendered, age-specific and exclusionary terms")
	case r.OverallScore < e.minorBelow:
		recs = append(recs, "Minor revisions suggested - consider more neutral, inclusive wording throughout")
	default:
		recs = append(recs, "You're close! Fix these few issues for an excellent score")
	}

	return recs
}

// categoryLabel renders "gender-coded" as "Gender Coded"
func categoryLabel(c Category) string {
	words := strings.Split(string(c), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
