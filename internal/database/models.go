package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
)

// Analysis is one stored analysis run
type Analysis struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Title        *string    `json:"title,omitempty"`
	OverallScore float64    `json:"overall_score"`
	Grade        bias.Grade `json:"grade"`
	WordCount    int        `json:"word_count"`
	IssueCount   int        `json:"issue_count"`
	ResultJSON   string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Result decodes the stored analysis result
func (a *Analysis) Result() (*bias.AnalysisResult, error) {
	var r bias.AnalysisResult
	if err := json.Unmarshal([]byte(a.ResultJSON), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// AnalysisTerm is one flagged term of a stored analysis
type AnalysisTerm struct {
	AnalysisID string        `json:"analysis_id"`
	Term       string        `json:"term"`
	Category   bias.Category `json:"category"`
	Severity   bias.Severity `json:"severity"`
	Count      int           `json:"count"`
}

// TermCount is a term with its total occurrences across analyses
type TermCount struct {
	Term      string        `json:"term"`
	Category  bias.Category `json:"category"`
	Severity  bias.Severity `json:"severity"`
	Analyses  int           `json:"analyses"`
	Instances int           `json:"instances"`
}

// Stats represents aggregate statistics
type Stats struct {
	TotalAnalyses int                `json:"total_analyses"`
	AverageScore  float64            `json:"average_score"`
	MinScore      float64            `json:"min_score"`
	MaxScore      float64            `json:"max_score"`
	ByGrade       map[bias.Grade]int `json:"by_grade"`
	TotalIssues   int                `json:"total_issues"`
}

// ListOptions contains options for listing analyses
type ListOptions struct {
	Grade  *bias.Grade
	Since  *time.Time
	Source *string
	Limit  int
	Offset int
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
