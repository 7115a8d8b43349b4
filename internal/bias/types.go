package bias

import "fmt"

// Category identifies the kind of bias a term signals
type Category string

const (
	CategoryGenderCoded   Category = "gender-coded"
	CategoryAgeist        Category = "ageist"
	CategoryAbleist       Category = "ableist"
	CategoryCultureFit    Category = "culture-fit"
	CategorySocioeconomic Category = "socioeconomic"
	CategoryRacial        Category = "racial"
)

// Categories lists every category in reporting order
var Categories = []Category{
	CategoryGenderCoded,
	CategoryAgeist,
	CategoryAbleist,
	CategoryCultureFit,
	CategorySocioeconomic,
	CategoryRacial,
}

// ParseCategory converts a string to a Category
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// Severity is the impact tier of a term
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"

	// SeverityNone marks a category with no flagged terms
	SeverityNone Severity = "none"
)

// Severities lists the term severities from most to least severe
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity converts a string to a term Severity
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range Severities {
		if string(sev) == s {
			return sev, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Rank orders severities: critical=4 down to low=1, none=0
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Grade is the discretized label derived from an overall score
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradePoor      Grade = "poor"
)

// Grades lists the grades from best to worst
var Grades = []Grade{GradeExcellent, GradeGood, GradeFair, GradePoor}

// ParseGrade converts a string to a Grade
func ParseGrade(s string) (Grade, error) {
	for _, g := range Grades {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown grade %q", s)
}

// TermRecord is one dictionary entry
type TermRecord struct {
	Term              string   `json:"term" toml:"term"`
	Category          Category `json:"category" toml:"category"`
	Severity          Severity `json:"severity" toml:"severity"`
	Suggestions       []string `json:"suggestions" toml:"suggestions"`
	Explanation       string   `json:"explanation" toml:"explanation"`
	ContextExceptions []string `json:"context_exceptions,omitempty" toml:"context_exceptions"`
}

// RawMatch is a single occurrence of a dictionary term in the text.
// Start and End are byte offsets into the original text.
type RawMatch struct {
	Term  *TermRecord
	Start int
	End   int
}

// FlaggedTerm aggregates the surviving occurrences of one term
type FlaggedTerm struct {
	Term        string   `json:"term"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Suggestions []string `json:"suggestions"`
	Explanation string   `json:"explanation"`
	Count       int      `json:"count"`
	Positions   []int    `json:"positions"`
	Contexts    []string `json:"contexts"`
}

// FirstOffset returns the offset of the earliest occurrence
func (f FlaggedTerm) FirstOffset() int {
	if len(f.Positions) == 0 {
		return 0
	}
	return f.Positions[0]
}

// CategoryScore is the score breakdown for one category
type CategoryScore struct {
	Category    Category `json:"category"`
	Score       float64  `json:"score"`
	IssueCount  int      `json:"issue_count"`
	MaxSeverity Severity `json:"max_severity"`
}

// AnalysisResult is the complete outcome of analysing one job ad
type AnalysisResult struct {
	OverallScore       float64         `json:"overall_score"`
	Grade              Grade           `json:"grade"`
	WordCount          int             `json:"word_count"`
	FlaggedTerms       []FlaggedTerm   `json:"flagged_terms"`
	CategoryScores     []CategoryScore `json:"category_scores"`
	PositiveIndicators []string        `json:"positive_indicators"`
	Recommendations    []string        `json:"recommendations"`
}

// IssueCount returns the total number of flagged occurrences
func (r *AnalysisResult) IssueCount() int {
	n := 0
	for _, f := range r.FlaggedTerms {
		n += f.Count
	}
	return n
}

// CountBySeverity returns the number of flagged occurrences with the given severity
func (r *AnalysisResult) CountBySeverity(sev Severity) int {
	n := 0
	for _, f := range r.FlaggedTerms {
		if f.Severity == sev {
			n += f.Count
		}
	}
	return n
}

// CategoryScore returns the score entry for a category
func (r *AnalysisResult) CategoryScore(c Category) (CategoryScore, bool) {
	for _, cs := range r.CategoryScores {
		if cs.Category == c {
			return cs, true
		}
	}
	return CategoryScore{}, false
}

// Span is a half-open byte range [Start, End) of a sentence
type Span struct {
	Start int
	End   int
}

// SentenceSegmenter splits text into ordered, non-overlapping sentence spans
type SentenceSegmenter interface {
	Segment(text string) []Span
}
