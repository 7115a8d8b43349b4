package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/textutil"
)

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         "jobad://dictionary",
		Name:        "Bias Dictionary",
		Description: "Every dictionary term grouped by category with severity and alternatives",
		MimeType:    "text/plain",
	},
	{
		URI:         "jobad://scoring",
		Name:        "Scoring Configuration",
		Description: "Category weights, severity multipliers and grade thresholds in effect",
		MimeType:    "text/plain",
	},
	{
		URI:         "jobad://history",
		Name:        "Recent Analyses",
		Description: "Last 10 saved analyses with aggregate statistics",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "jobad://dictionary":
		return s.dictionaryResource(), nil
	case "jobad://scoring":
		return s.scoringResource(), nil
	case "jobad://history":
		return s.historyResource(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) dictionaryResource() string {
	dict := s.analyser.Dictionary()
	var b strings.Builder

	fmt.Fprintf(&b, "Bias Dictionary (%d terms)\n==========================\n", dict.Len())
	for _, c := range bias.Categories {
		terms := dict.ByCategory(c)
		if len(terms) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%d):\n", strings.ToUpper(textutil.Label(string(c))), len(terms))
		for _, t := range terms {
			fmt.Fprintf(&b, "  - %s [%s] -> %s\n", t.Term, t.Severity, strings.Join(t.Suggestions, ", "))
		}
	}
	return b.String()
}

func (s *Server) scoringResource() string {
	cfg := s.analyser.Config()
	var b strings.Builder

	b.WriteString("Scoring Configuration\n=====================\n\n")
	fmt.Fprintf(&b, "Base points per occurrence: %g\n", cfg.BasePoints)
	fmt.Fprintf(&b, "Length baseline (words):    %g\n", cfg.LengthBaseline)

	b.WriteString("\nCategory weights:\n")
	for _, c := range bias.Categories {
		fmt.Fprintf(&b, "  %-14s %.2f\n", c, cfg.CategoryWeights[c])
	}

	b.WriteString("\nSeverity multipliers:\n")
	for _, sev := range bias.Severities {
		fmt.Fprintf(&b, "  %-14s %.2f\n", sev, cfg.SeverityMultipliers[sev])
	}

	t := cfg.GradeThresholds
	fmt.Fprintf(&b, "\nGrades: excellent >= %g, good >= %g, fair >= %g, otherwise poor\n", t.Excellent, t.Good, t.Fair)
	return b.String()
}

func (s *Server) historyResource(ctx context.Context) (string, error) {
	if s.db == nil {
		return "Analysis history is disabled.\n", nil
	}

	stats, err := s.db.GetStats(ctx, nil)
	if err != nil {
		return "", err
	}
	recent, err := s.db.ListAnalyses(ctx, database.ListOptions{Limit: 10})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Recent Analyses\n===============\n\n")
	if stats.TotalAnalyses == 0 {
		b.WriteString("No analyses saved yet. Run 'jobad analyse --save' to record one.\n")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Total: %d | Average score: %.1f | Range: %.1f - %.1f\n\n",
		stats.TotalAnalyses, stats.AverageScore, stats.MinScore, stats.MaxScore)
	for _, a := range recent {
		days := int(time.Since(a.CreatedAt).Hours() / 24)
		fmt.Fprintf(&b, "- %s | %s | %.1f (%s) | %d issue(s) | %d day(s) ago\n",
			a.ID[:min(8, len(a.ID))], a.Source, a.OverallScore, a.Grade, a.IssueCount, days)
	}
	return b.String(), nil
}
