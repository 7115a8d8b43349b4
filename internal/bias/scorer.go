package bias

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	weightTolerance    = 1e-6
	lengthEpsilon      = 0.1  // floor for the length factor on near-empty text
	logScale           = 20.0 // penalty-to-score scaling factor
	categoryPointScale = 10.0
	maxCategoryPenalty = 50.0
)

// GradeThresholds are the minimum scores for each grade above poor
type GradeThresholds struct {
	Excellent float64 `json:"excellent" toml:"excellent"`
	Good      float64 `json:"good" toml:"good"`
	Fair      float64 `json:"fair" toml:"fair"`
}

// Config holds the scoring parameters. It is read-only to the analyser.
type Config struct {
	CategoryWeights     map[Category]float64
	SeverityMultipliers map[Severity]float64
	GradeThresholds     GradeThresholds
	BasePoints          float64
	LengthBaseline      float64
	PositiveIndicators  []string

	// MaxContexts bounds the sentence snippets kept per flagged term
	MaxContexts int
	// ContextWindow is the byte radius used when no sentence span is known
	ContextWindow int
}

// DefaultConfig returns the standard scoring configuration
func DefaultConfig() Config {
	return Config{
		CategoryWeights: map[Category]float64{
			CategoryGenderCoded:   0.25,
			CategoryAgeist:        0.25,
			CategoryAbleist:       0.25,
			CategoryCultureFit:    0.15,
			CategorySocioeconomic: 0.05,
			CategoryRacial:        0.05,
		},
		SeverityMultipliers: map[Severity]float64{
			SeverityCritical: 2.0,
			SeverityHigh:     1.5,
			SeverityMedium:   1.0,
			SeverityLow:      0.5,
		},
		GradeThresholds: GradeThresholds{Excellent: 90, Good: 75, Fair: 60},
		BasePoints:      10,
		LengthBaseline:  100,
		PositiveIndicators: []string{
			"equal opportunity employer",
			"diverse",
			"diversity",
			"inclusive",
			"accommodations available",
			"flexible working",
			"parental leave",
			"accessibility",
			"underrepresented",
			"all backgrounds",
			"equivalent experience",
		},
		MaxContexts:   defaultMaxContexts,
		ContextWindow: defaultContextWindow,
	}
}

// Validate checks the structural invariants of the configuration.
// Every violation is reported as a *ConfigError joined into one error.
func (c Config) Validate() error {
	var errs []error

	sum := 0.0
	for cat, w := range c.CategoryWeights {
		key := "category_weights." + string(cat)
		if !cat.Valid() {
			errs = append(errs, &ConfigError{Key: key, Reason: "unknown category"})
		}
		if w < 0 || w > 1 || math.IsNaN(w) {
			errs = append(errs, &ConfigError{Key: key, Reason: fmt.Sprintf("weight %v outside [0,1]", w)})
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		errs = append(errs, &ConfigError{Key: "category_weights", Reason: fmt.Sprintf("weights sum to %g, want 1.0", sum)})
	}

	for sev, m := range c.SeverityMultipliers {
		key := "severity_multipliers." + string(sev)
		if sev.Rank() == 0 {
			errs = append(errs, &ConfigError{Key: key, Reason: "unknown severity"})
		}
		if !(m > 0) {
			errs = append(errs, &ConfigError{Key: key, Reason: fmt.Sprintf("multiplier %v must be > 0", m)})
		}
	}

	t := c.GradeThresholds
	if !(t.Excellent > t.Good && t.Good > t.Fair) {
		errs = append(errs, &ConfigError{
			Key:    "grade_thresholds",
			Reason: fmt.Sprintf("thresholds must satisfy excellent > good > fair, got %v/%v/%v", t.Excellent, t.Good, t.Fair),
		})
	}
	if t.Fair < 0 || t.Excellent > 100 {
		errs = append(errs, &ConfigError{Key: "grade_thresholds", Reason: "thresholds must lie within [0,100]"})
	}

	if !(c.BasePoints > 0) {
		errs = append(errs, &ConfigError{Key: "base_points", Reason: "must be > 0"})
	}
	if !(c.LengthBaseline > 0) {
		errs = append(errs, &ConfigError{Key: "length_baseline", Reason: "must be > 0"})
	}
	if c.MaxContexts < 0 {
		errs = append(errs, &ConfigError{Key: "max_contexts", Reason: "must not be negative"})
	}
	if c.ContextWindow < 0 {
		errs = append(errs, &ConfigError{Key: "context_window", Reason: "must not be negative"})
	}

	return errors.Join(errs...)
}

// Scorer turns flagged terms into overall and per-category scores
type Scorer struct {
	cfg Config
}

// NewScorer validates cfg and returns a Scorer bound to it
func NewScorer(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

// RawPenalty sums count × base points × category weight × severity multiplier
func (s *Scorer) RawPenalty(flagged []FlaggedTerm) (float64, error) {
	total := 0.0
	for _, f := range flagged {
		weight, ok := s.cfg.CategoryWeights[f.Category]
		if !ok {
			return 0, &ConfigError{Key: "category_weights." + string(f.Category), Reason: "missing weight for term " + f.Term}
		}
		mult, err := s.multiplier(f)
		if err != nil {
			return 0, err
		}
		total += float64(f.Count) * s.cfg.BasePoints * weight * mult
	}
	return total, nil
}

// OverallScore computes the length-normalized, log-scaled score in [0,100]
func (s *Scorer) OverallScore(flagged []FlaggedTerm, wordCount int) (float64, error) {
	if wordCount < 0 {
		return 0, &InputError{Field: "word_count", Reason: fmt.Sprintf("negative value %d", wordCount)}
	}
	raw, err := s.RawPenalty(flagged)
	if err != nil {
		return 0, err
	}
	if raw == 0 {
		return 100, nil
	}

	lengthFactor := float64(max(wordCount, 1)) / s.cfg.LengthBaseline
	normalized := raw / math.Max(lengthFactor, lengthEpsilon)

	scaled := math.Min(100, logScale*math.Log(normalized+1))
	return math.Max(0, math.Min(100, 100-scaled)), nil
}

// CategoryScores scores every category, including ones without issues.
// Only severity multipliers apply here; category weights do not.
func (s *Scorer) CategoryScores(flagged []FlaggedTerm) ([]CategoryScore, error) {
	raw := make(map[Category]float64, len(Categories))
	scores := make(map[Category]*CategoryScore, len(Categories))
	for _, c := range Categories {
		scores[c] = &CategoryScore{Category: c, Score: 100, MaxSeverity: SeverityNone}
	}

	for _, f := range flagged {
		cs, ok := scores[f.Category]
		if !ok {
			return nil, &ConfigError{Key: "category_weights." + string(f.Category), Reason: "unknown category for term " + f.Term}
		}
		mult, err := s.multiplier(f)
		if err != nil {
			return nil, err
		}
		raw[f.Category] += float64(f.Count) * mult
		cs.IssueCount += f.Count
		if f.Severity.Rank() > cs.MaxSeverity.Rank() {
			cs.MaxSeverity = f.Severity
		}
	}

	out := make([]CategoryScore, 0, len(Categories))
	for _, c := range Categories {
		cs := scores[c]
		if cs.IssueCount > 0 {
			penalty := math.Min(maxCategoryPenalty, raw[c]*categoryPointScale)
			cs.Score = math.Max(0, 100-penalty)
		}
		out = append(out, *cs)
	}
	return out, nil
}

// Grade maps a score onto the configured thresholds
func (s *Scorer) Grade(score float64) Grade {
	t := s.cfg.GradeThresholds
	switch {
	case score >= t.Excellent:
		return GradeExcellent
	case score >= t.Good:
		return GradeGood
	case score >= t.Fair:
		return GradeFair
	default:
		return GradePoor
	}
}

func (s *Scorer) multiplier(f FlaggedTerm) (float64, error) {
	mult, ok := s.cfg.SeverityMultipliers[f.Severity]
	if !ok {
		return 0, &ConfigError{Key: "severity_multipliers." + string(f.Severity), Reason: "missing multiplier for term " + f.Term}
	}
	return mult, nil
}

// DetectPositiveIndicators returns the configured phrases present in text.
// This is a plain case-insensitive substring search with no word-boundary
// check, unlike term matching. The result never influences any score.
func DetectPositiveIndicators(text string, phrases []string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(phrases))
	var found []string
	for _, p := range phrases {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if strings.Contains(lower, key) {
			found = append(found, p)
		}
	}
	return found
}
