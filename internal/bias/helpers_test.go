package bias

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testRecords() []TermRecord {
	return []TermRecord{
		{
			Term:        "rockstar",
			Category:    CategoryGenderCoded,
			Severity:    SeverityHigh,
			Suggestions: []string{"skilled professional", "expert"},
			Explanation: "Masculine-coded and vague",
		},
		{
			Term:        "rock",
			Category:    CategoryGenderCoded,
			Severity:    SeverityLow,
			Suggestions: []string{"excel"},
			Explanation: "Informal, masculine-coded",
		},
		{
			Term:        "young and energetic",
			Category:    CategoryAgeist,
			Severity:    SeverityHigh,
			Suggestions: []string{"enthusiastic"},
			Explanation: "Signals an age preference",
		},
		{
			Term:        "digital native",
			Category:    CategoryAgeist,
			Severity:    SeverityHigh,
			Suggestions: []string{"comfortable with digital tools"},
			Explanation: "Implies a younger generation",
		},
		{
			Term:              "competitive",
			Category:          CategoryGenderCoded,
			Severity:          SeverityMedium,
			Suggestions:       []string{"motivated"},
			Explanation:       "Masculine-coded trait",
			ContextExceptions: []string{"competitive salary", "competitive benefits"},
		},
		{
			Term:        "bro culture",
			Category:    CategoryCultureFit,
			Severity:    SeverityCritical,
			Suggestions: []string{"inclusive culture"},
			Explanation: "Excludes anyone outside the in-group",
		},
	}
}

func testDictionary(t *testing.T) *TermDictionary {
	t.Helper()
	d, err := NewDictionary(testRecords())
	require.NoError(t, err)
	return d
}

// punctSegmenter splits after '.', '!' or '?' and keeps spans contiguous
type punctSegmenter struct{}

func (punctSegmenter) Segment(text string) []Span {
	var spans []Span
	start := 0
	for i := 0; i < len(text); i++ {
		if strings.ContainsRune(".!?", rune(text[i])) {
			spans = append(spans, Span{Start: start, End: i + 1})
			start = i + 1
		}
	}
	if start < len(text) {
		spans = append(spans, Span{Start: start, End: len(text)})
	}
	return spans
}

func flaggedByTerm(flagged []FlaggedTerm, term string) *FlaggedTerm {
	for i := range flagged {
		if flagged[i].Term == term {
			return &flagged[i]
		}
	}
	return nil
}
