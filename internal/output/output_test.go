package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

func sampleReport() Report {
	return Report{
		Name: "ads/backend.txt",
		Result: &bias.AnalysisResult{
			OverallScore: 41.25,
			Grade:        bias.GradePoor,
			WordCount:    57,
			FlaggedTerms: []bias.FlaggedTerm{
				{
					Term:        "bro culture",
					Category:    bias.CategoryCultureFit,
					Severity:    bias.SeverityCritical,
					Suggestions: []string{"inclusive culture"},
					Explanation: "Signals an exclusionary in-group",
					Count:       1,
					Positions:   []int{40},
					Contexts:    []string{"Join our bro culture."},
				},
				{
					Term:        "rockstar",
					Category:    bias.CategoryGenderCoded,
					Severity:    bias.SeverityHigh,
					Suggestions: []string{"expert", "skilled professional"},
					Count:       2,
					Positions:   []int{10, 80},
					Contexts:    []string{strings.Repeat("long context ", 20)},
				},
			},
			CategoryScores: []bias.CategoryScore{
				{Category: bias.CategoryGenderCoded, Score: 70, IssueCount: 2, MaxSeverity: bias.SeverityHigh},
				{Category: bias.CategoryAgeist, Score: 100, MaxSeverity: bias.SeverityNone},
				{Category: bias.CategoryAbleist, Score: 100, MaxSeverity: bias.SeverityNone},
				{Category: bias.CategoryCultureFit, Score: 80, IssueCount: 1, MaxSeverity: bias.SeverityCritical},
				{Category: bias.CategorySocioeconomic, Score: 100, MaxSeverity: bias.SeverityNone},
				{Category: bias.CategoryRacial, Score: 100, MaxSeverity: bias.SeverityNone},
			},
			PositiveIndicators: []string{"flexible working"},
			Recommendations:    []string{"CRITICAL: Remove 1 critically biased term(s) immediately"},
		},
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReport()
	require.NoError(t, Text(&buf, &r, Options{Now: fixedNow}))
	out := buf.String()

	assert.Contains(t, out, "INCLUSIVE JOB AD ANALYSIS REPORT")
	assert.Contains(t, out, "Source: ads/backend.txt")
	assert.Contains(t, out, "Overall Score: 41.2/100 (poor)")
	assert.Contains(t, out, "Issues Found: 2")
	assert.Contains(t, out, "Culture Fit")
	assert.Contains(t, out, "CRITICAL SEVERITY:")
	assert.Contains(t, out, "1. 'bro culture' [culture-fit] (found 1x)")
	assert.Contains(t, out, "Suggestion: expert, skilled professional")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "✓ Contains 'flexible working'")
	assert.Contains(t, out, "Report generated: 2026-03-01 09:30:00")
	assert.NotContains(t, out, "\033[")

	assert.Less(t, strings.Index(out, "CRITICAL SEVERITY:"), strings.Index(out, "HIGH SEVERITY:"))
}

func TestText_Color(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReport()
	require.NoError(t, Text(&buf, &r, Options{Color: true, Now: fixedNow}))

	assert.Contains(t, buf.String(), ColorRed+"41.2/100"+ColorReset)
}

func TestText_Error(t *testing.T) {
	var buf bytes.Buffer
	r := Report{Name: "missing.txt", Error: "file not found"}
	require.NoError(t, Text(&buf, &r, Options{}))

	assert.Contains(t, buf.String(), "Error: file not found")
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReport()
	require.NoError(t, Markdown(&buf, &r, Options{Now: fixedNow}))
	out := buf.String()

	assert.Contains(t, out, "# Inclusive Job Ad Analysis Report")
	assert.Contains(t, out, "**Overall Score:** 41.2/100 (poor)")
	assert.Contains(t, out, "| Gender Coded | 70.0/100 | 2 | high |")
	assert.Contains(t, out, "### CRITICAL Severity")
	assert.Contains(t, out, "- Suggestion: inclusive culture")
	assert.Contains(t, out, "- ✓ Contains 'flexible working'")

	// worst category first
	assert.Less(t, strings.Index(out, "| Gender Coded"), strings.Index(out, "| Culture Fit"))
}

func TestJSONReports(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONReports(&buf, []Report{sampleReport()}, Options{Now: fixedNow}))

	var decoded struct {
		Name   string               `json:"name"`
		Result *bias.AnalysisResult `json:"result"`
		Meta   struct {
			GeneratedAt time.Time `json:"generated_at"`
			Version     string    `json:"version"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ads/backend.txt", decoded.Name)
	assert.Equal(t, 41.25, decoded.Result.OverallScore)
	assert.True(t, fixedNow().Equal(decoded.Meta.GeneratedAt))
	assert.Equal(t, Version, decoded.Meta.Version)

	buf.Reset()
	require.NoError(t, JSONReports(&buf, []Report{sampleReport(), sampleReport()}, Options{}))
	var many []json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &many))
	assert.Len(t, many, 2)
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	reports := []Report{sampleReport(), {Name: "broken.txt", Error: "unreadable"}}
	require.NoError(t, CSV(&buf, reports))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing column %s", name)
		return -1
	}

	assert.Equal(t, "ads/backend.txt", rows[1][col("filename")])
	assert.Equal(t, "41.2", rows[1][col("overall_score")])
	assert.Equal(t, "2", rows[1][col("total_issues")])
	assert.Equal(t, "70.0", rows[1][col("gender-coded_score")])
	assert.Equal(t, "2", rows[1][col("high_count")])
	assert.Equal(t, "1", rows[1][col("critical_count")])
	assert.Equal(t, "unreadable", rows[2][col("error")])
	assert.Len(t, rows[2], len(header))
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "yaml", nil, Options{})
	assert.EqualError(t, err, "unknown output format: yaml")
}

func TestTableTo(t *testing.T) {
	var buf bytes.Buffer
	analyses := []database.Analysis{{
		ID:           "0123456789abcdef",
		Source:       "https://example.com/jobs/1",
		OverallScore: 88.8,
		Grade:        bias.GradeGood,
		IssueCount:   1,
		CreatedAt:    time.Now().Add(-2 * time.Hour),
	}}
	require.NoError(t, TableTo(&buf, analyses))
	assert.Contains(t, buf.String(), "01234567")
	assert.Contains(t, buf.String(), "88.8")

	buf.Reset()
	require.NoError(t, TableTo(&buf, []database.Analysis{}))
	assert.Contains(t, buf.String(), "No analyses found.")

	buf.Reset()
	stats := bias.DictionaryStats{
		TotalTerms: 3,
		ByCategory: map[bias.Category]int{bias.CategoryAgeist: 3},
		BySeverity: map[bias.Severity]int{bias.SeverityHigh: 3},
	}
	require.NoError(t, TableTo(&buf, stats))
	assert.Contains(t, buf.String(), "Total terms: 3")

	assert.Error(t, TableTo(&buf, 42))
}

func TestOutputTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputTo(&buf, "json", map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())

	assert.Error(t, OutputTo(&buf, "xml", nil))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abc", shorten("abc", 5))
	assert.Equal(t, "ab...", shorten("abcdef", 2))
	assert.Equal(t, "日本...", shorten("日本語テキスト", 2))
}
